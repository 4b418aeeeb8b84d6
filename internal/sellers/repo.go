package sellers

import (
	"context"
	"fmt"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles seller persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to seller operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new seller row.
func (r *Repository) Create(ctx context.Context, seller *models.Seller) error {
	if seller == nil {
		return fmt.Errorf("seller is required")
	}
	return r.db.WithContext(ctx).Create(seller).Error
}

// FindByID loads a seller by UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.WithContext(ctx).First(&seller, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

// FindBySlug loads a seller by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.WithContext(ctx).First(&seller, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

// UpdateFields applies the given columns and reports rows changed.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Seller{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// UpdateImage persists only the image columns.
func (r *Repository) UpdateImage(ctx context.Context, id uuid.UUID, image models.Image) error {
	return r.db.WithContext(ctx).
		Model(&models.Seller{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"image_original":  image.Original,
			"image_thumbnail": image.Thumbnail,
			"image_cropped":   image.Cropped,
		}).Error
}

// List returns one page of sellers filtered by name.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Seller, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Seller{})
	if params.Query != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+params.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortCol := params.SortColumn([]string{"name", "city", "promotions", "created_at"}, "created_at")

	var rows []models.Seller
	if err := query.
		Order(fmt.Sprintf("%s %s", sortCol, params.Order)).
		Offset(params.Offset()).
		Limit(pagination.NormalizeLimit(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Delete removes the seller row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Seller{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// AdjustPromotionCount shifts the denormalized promotion counter.
func (r *Repository) AdjustPromotionCount(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Seller{}).
		Where("id = ?", id).
		UpdateColumn("promotions", gorm.Expr("promotions + ?", delta)).Error
}
