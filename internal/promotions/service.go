package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type promotionsRepository interface {
	Create(ctx context.Context, promotion *models.Promotion) error
	UpsertTags(ctx context.Context, names []string) ([]models.Tag, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	FindBySellerAndSlug(ctx context.Context, sellerID uuid.UUID, slug string) (*models.Promotion, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (int64, error)
	ReplaceTags(ctx context.Context, promotion *models.Promotion, tags []models.Tag) error
	UpdateImage(ctx context.Context, id uuid.UUID, image models.Image) error
	List(ctx context.Context, sellerID *uuid.UUID, params pagination.Params) ([]models.Promotion, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type promotionCounter interface {
	AdjustPromotionCount(ctx context.Context, id uuid.UUID, delta int) error
}

type fileRemover interface {
	Remove(rel string) error
}

// Service exposes promotion operations.
type Service interface {
	Create(ctx context.Context, actorID *uuid.UUID, input CreatePromotionInput) (*PromotionDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PromotionDTO, error)
	GetBySlug(ctx context.Context, sellerID uuid.UUID, slug string) (*PromotionDTO, error)
	List(ctx context.Context, params pagination.Params) (pagination.Page[PromotionDTO], error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (pagination.Page[PromotionDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (*PromotionDTO, error)
}

type service struct {
	repo    promotionsRepository
	counter promotionCounter
	files   fileRemover
	logg    *logger.Logger
}

// NewService builds a promotion service.
func NewService(repo promotionsRepository, counter promotionCounter, files fileRemover, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	return &service{repo: repo, counter: counter, files: files, logg: logg}, nil
}

func parsePrice(field, raw string, details map[string]string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		details[field] = "must be a decimal number"
		return decimal.Zero
	}
	if value.IsNegative() {
		details[field] = "must not be negative"
	}
	return value
}

func (s *service) Create(ctx context.Context, actorID *uuid.UUID, input CreatePromotionInput) (*PromotionDTO, error) {
	details := map[string]string{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		details["title"] = "is required"
	}
	sellerID, err := uuid.Parse(strings.TrimSpace(input.SellerID))
	if err != nil {
		details["seller_id"] = "must be a seller id"
	}
	original := parsePrice("original_price", input.OriginalPrice, details)
	discounted := parsePrice("discounted_price", input.DiscountedPrice, details)
	if input.Expiry.IsZero() {
		details["expiry"] = "is required"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	tags, err := s.repo.UpsertTags(ctx, input.Tags)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert tags")
	}

	promotion := &models.Promotion{
		ID:              uuid.New(),
		Title:           title,
		Slug:            slug.Make(title),
		SellerID:        sellerID,
		Description:     strings.TrimSpace(input.Description),
		Image:           models.Image{Thumbnail: models.PromotionThumbnailPlaceholder},
		OriginalPrice:   original,
		DiscountedPrice: discounted,
		Active:          true,
		Expiry:          input.Expiry,
		Tags:            tags,
		CreatedBy:       actorID,
	}

	if err := s.repo.Create(ctx, promotion); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this seller already runs a promotion with this title").
				WithDetails(map[string]any{"slug": promotion.Slug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}

	if s.counter != nil {
		if err := s.counter.AdjustPromotionCount(ctx, sellerID, 1); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump seller counter")
		}
	}
	return FromModel(promotion), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PromotionDTO, error) {
	promotion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err)
	}
	return FromModel(promotion), nil
}

func (s *service) GetBySlug(ctx context.Context, sellerID uuid.UUID, slugValue string) (*PromotionDTO, error) {
	promotion, err := s.repo.FindBySellerAndSlug(ctx, sellerID, slugValue)
	if err != nil {
		return nil, notFoundOrDependency(err)
	}
	return FromModel(promotion), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[PromotionDTO], error) {
	return s.list(ctx, nil, params)
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (pagination.Page[PromotionDTO], error) {
	return s.list(ctx, &sellerID, params)
}

func (s *service) list(ctx context.Context, sellerID *uuid.UUID, params pagination.Params) (pagination.Page[PromotionDTO], error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, sellerID, params)
	if err != nil {
		return pagination.Page[PromotionDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}

	docs := make([]PromotionDTO, 0, len(rows))
	for i := range rows {
		docs = append(docs, *FromModel(&rows[i]))
	}
	return pagination.NewPage(docs, total, params), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error) {
	promotion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err)
	}

	fields := map[string]any{}
	details := map[string]string{}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.OriginalPrice != nil {
		fields["original_price"] = parsePrice("original_price", *input.OriginalPrice, details)
	}
	if input.DiscountedPrice != nil {
		fields["discounted_price"] = parsePrice("discounted_price", *input.DiscountedPrice, details)
	}
	if input.Active != nil {
		fields["active"] = *input.Active
	}
	if input.Expiry != nil {
		fields["expiry"] = *input.Expiry
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	if len(fields) > 0 {
		rows, err := s.repo.UpdateFields(ctx, id, fields)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promotion")
		}
		if rows == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
		}
	}

	if input.Tags != nil {
		tags, err := s.repo.UpsertTags(ctx, *input.Tags)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert tags")
		}
		if err := s.repo.ReplaceTags(ctx, promotion, tags); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace tags")
		}
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (*PromotionDTO, error) {
	promotion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err)
	}

	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promotion")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
	}

	if s.counter != nil {
		if err := s.counter.AdjustPromotionCount(ctx, promotion.SellerID, -1); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop seller counter")
		}
	}

	if s.files != nil {
		var fileErr error
		for _, rel := range promotion.Image.UploadPaths() {
			fileErr = multierr.Append(fileErr, s.files.Remove(rel))
		}
		if fileErr != nil && s.logg != nil {
			s.logg.Error(ctx, "promotion.delete_files_failed", fileErr)
		}
	}
	return FromModel(promotion), nil
}

func notFoundOrDependency(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
}
