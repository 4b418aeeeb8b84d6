package profiles

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dealboard/dealboard-backend/internal/audit"
	"github.com/dealboard/dealboard-backend/internal/uploads"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	defaultThumbnailWidth = 300
	defaultCroppedWidth   = 900
)

type profilesRepository interface {
	Create(ctx context.Context, profile *models.UploadProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.UploadProfile, error)
	FindBySlug(ctx context.Context, slug string) (*models.UploadProfile, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (int64, error)
	List(ctx context.Context, params pagination.Params) ([]models.UploadProfile, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type provisioner interface {
	Provision(ctx context.Context, slug string) (uploads.Layout, error)
}

// Service exposes upload profile operations.
type Service interface {
	Create(ctx context.Context, actorID *uuid.UUID, input CreateProfileInput) (*ProfileDTO, error)
	Update(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	GetBySlug(ctx context.Context, slug string) (*ProfileDTO, error)
	List(ctx context.Context, params pagination.Params) (pagination.Page[ProfileDTO], error)
	Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (*ProfileDTO, error)
	ModelBySlug(ctx context.Context, slug string) (*models.UploadProfile, error)
}

type service struct {
	repo    profilesRepository
	planner provisioner
	auditor *audit.Recorder
}

// NewService builds a profile service with the provided repository and planner.
func NewService(repo profilesRepository, planner provisioner, auditor *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	if planner == nil {
		return nil, fmt.Errorf("planner required")
	}
	return &service{repo: repo, planner: planner, auditor: auditor}, nil
}

// ParseAspectRatio splits a "w:h" string into its positive integer parts.
func ParseAspectRatio(value string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected w:h")
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("width must be a positive integer")
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("height must be a positive integer")
	}
	return w, h, nil
}

func (s *service) Create(ctx context.Context, actorID *uuid.UUID, input CreateProfileInput) (*ProfileDTO, error) {
	details := map[string]string{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		details["name"] = "is required"
	}
	if input.Crop == nil {
		details["crop"] = "must be a boolean"
	}

	var ratioW, ratioH int
	if strings.TrimSpace(input.AspectRatio) == "" {
		details["aspect_ratio"] = "is required"
	} else {
		var err error
		ratioW, ratioH, err = ParseAspectRatio(input.AspectRatio)
		if err != nil {
			details["aspect_ratio"] = err.Error()
		}
	}

	maxSize := models.DefaultMaxUploadBytes
	if input.MaxSize != nil {
		if *input.MaxSize <= 0 {
			details["max_size"] = "must be positive"
		} else {
			maxSize = *input.MaxSize
		}
	}

	thumbWidth := defaultThumbnailWidth
	if input.ThumbnailWidth != nil {
		if *input.ThumbnailWidth <= 0 {
			details["thumbnail_width"] = "must be positive"
		} else {
			thumbWidth = *input.ThumbnailWidth
		}
	}

	croppedWidth := defaultCroppedWidth
	if input.CroppedWidth != nil {
		if *input.CroppedWidth <= 0 {
			details["cropped_width"] = "must be positive"
		} else {
			croppedWidth = *input.CroppedWidth
		}
	}

	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	profileSlug := slug.Make(name)

	layout, err := s.planner.Provision(ctx, profileSlug)
	if err != nil {
		return nil, err
	}

	profile := &models.UploadProfile{
		ID:             uuid.New(),
		Name:           name,
		Slug:           profileSlug,
		Crop:           *input.Crop,
		MaxSize:        maxSize,
		AspectRatioW:   ratioW,
		AspectRatioH:   ratioH,
		ThumbnailWidth: thumbWidth,
		CroppedWidth:   croppedWidth,
		OriginalPath:   layout.OriginalPath,
		CroppedPath:    layout.CroppedPath,
		ThumbnailsPath: layout.ThumbnailsPath,
		CreatedBy:      actorID,
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a profile with this name already exists").
				WithDetails(map[string]any{"slug": profileSlug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}

	s.auditor.Record(ctx, actorID, "profile.create", "upload_profiles", &profile.ID, nil, FromModel(profile))
	return FromModel(profile), nil
}

func (s *service) Update(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	// A stale id behaves like a zero-row update, matching the dashboard's
	// legacy contract, not like a missing resource.
	before, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	fields := map[string]any{}
	details := map[string]string{}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			details["name"] = "must not be empty"
		} else {
			fields["name"] = strings.TrimSpace(*input.Name)
		}
	}
	if input.Crop != nil {
		fields["crop"] = *input.Crop
	}
	if input.AspectRatio != nil {
		ratioW, ratioH, err := ParseAspectRatio(*input.AspectRatio)
		if err != nil {
			details["aspect_ratio"] = err.Error()
		} else {
			fields["aspect_ratio_w"] = ratioW
			fields["aspect_ratio_h"] = ratioH
		}
	}
	if input.MaxSize != nil {
		if *input.MaxSize <= 0 {
			details["max_size"] = "must be positive"
		} else {
			fields["max_size"] = *input.MaxSize
		}
	}
	if input.ThumbnailWidth != nil {
		if *input.ThumbnailWidth <= 0 {
			details["thumbnail_width"] = "must be positive"
		} else {
			fields["thumbnail_width"] = *input.ThumbnailWidth
		}
	}
	if input.CroppedWidth != nil {
		if *input.CroppedWidth <= 0 {
			details["cropped_width"] = "must be positive"
		} else {
			fields["cropped_width"] = *input.CroppedWidth
		}
	}

	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	rows, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
	}

	after, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload profile")
	}

	s.auditor.Record(ctx, actorID, "profile.update", "upload_profiles", &id, FromModel(before), FromModel(after))
	return FromModel(after), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*ProfileDTO, error) {
	profile, err := s.ModelBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

// ModelBySlug serves the pipeline's profile resolution.
func (s *service) ModelBySlug(ctx context.Context, slugValue string) (*models.UploadProfile, error) {
	profile, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upload profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[ProfileDTO], error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[ProfileDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list profiles")
	}

	docs := make([]ProfileDTO, 0, len(rows))
	for i := range rows {
		docs = append(docs, *FromModel(&rows[i]))
	}
	return pagination.NewPage(docs, total, params), nil
}

// Delete removes the profile row and returns the removed profile. Files under
// the profile's directories are deliberately left in place.
func (s *service) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upload profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete profile")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
	}

	s.auditor.Record(ctx, actorID, "profile.delete", "upload_profiles", &id, FromModel(profile), nil)
	return FromModel(profile), nil
}
