package promotions

import (
	"context"
	"fmt"
	"strings"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles promotion persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to promotion operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new promotion row with its tag associations.
func (r *Repository) Create(ctx context.Context, promotion *models.Promotion) error {
	if promotion == nil {
		return fmt.Errorf("promotion is required")
	}
	return r.db.WithContext(ctx).Create(promotion).Error
}

// UpsertTags finds or creates a tag row per name.
func (r *Repository) UpsertTags(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		var tag models.Tag
		err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = models.Tag{ID: uuid.New(), Name: name}
			err = r.db.WithContext(ctx).Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// FindByID loads a promotion with its seller and tags.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Tags").
		First(&promotion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

// FindBySellerAndSlug loads a promotion by its per-seller slug.
func (r *Repository) FindBySellerAndSlug(ctx context.Context, sellerID uuid.UUID, slug string) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Tags").
		First(&promotion, "seller_id = ? AND slug = ?", sellerID, slug).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

// UpdateFields applies the given columns and reports rows changed.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// ReplaceTags swaps the promotion's tag associations.
func (r *Repository) ReplaceTags(ctx context.Context, promotion *models.Promotion, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(promotion).Association("Tags").Replace(tags)
}

// UpdateImage persists only the image columns.
func (r *Repository) UpdateImage(ctx context.Context, id uuid.UUID, image models.Image) error {
	return r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"image_original":  image.Original,
			"image_thumbnail": image.Thumbnail,
			"image_cropped":   image.Cropped,
		}).Error
}

// List returns one page of promotions filtered by title, optionally scoped to
// a seller.
func (r *Repository) List(ctx context.Context, sellerID *uuid.UUID, params pagination.Params) ([]models.Promotion, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Promotion{})
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}
	if params.Query != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+params.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortCol := params.SortColumn([]string{"title", "expiry", "created_at"}, "created_at")

	var rows []models.Promotion
	if err := query.
		Preload("Seller").
		Preload("Tags").
		Order(fmt.Sprintf("%s %s", sortCol, params.Order)).
		Offset(params.Offset()).
		Limit(pagination.NormalizeLimit(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Delete removes the promotion row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Select("Tags").Delete(&models.Promotion{ID: id})
	return result.RowsAffected, result.Error
}
