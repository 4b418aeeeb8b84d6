package profiles

import (
	"context"
	"fmt"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles upload profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to profile operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new profile row.
func (r *Repository) Create(ctx context.Context, profile *models.UploadProfile) error {
	if profile == nil {
		return fmt.Errorf("profile is required")
	}
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindByID loads a profile by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.UploadProfile, error) {
	var profile models.UploadProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindBySlug loads a profile by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.UploadProfile, error) {
	var profile models.UploadProfile
	if err := r.db.WithContext(ctx).First(&profile, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateFields applies the mutable columns and reports how many rows changed.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UploadProfile{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// List returns one page of profiles plus the unfiltered-by-page total.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.UploadProfile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UploadProfile{})
	if params.Query != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+params.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortCol := params.SortColumn([]string{"name", "created_at", "updated_at"}, "created_at")

	var rows []models.UploadProfile
	if err := query.
		Order(fmt.Sprintf("%s %s", sortCol, params.Order)).
		Offset(params.Offset()).
		Limit(pagination.NormalizeLimit(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Delete removes the profile row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.UploadProfile{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
