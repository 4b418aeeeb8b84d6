package sellers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dealboard/dealboard-backend/internal/users"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type sellersRepository interface {
	Create(ctx context.Context, seller *models.Seller) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error)
	FindBySlug(ctx context.Context, slug string) (*models.Seller, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (int64, error)
	UpdateImage(ctx context.Context, id uuid.UUID, image models.Image) error
	List(ctx context.Context, params pagination.Params) ([]models.Seller, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type usersSearcher interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[users.UserDTO], error)
}

type fileRemover interface {
	Remove(rel string) error
}

// Service exposes seller operations.
type Service interface {
	Create(ctx context.Context, actorID *uuid.UUID, input CreateSellerInput) (*SellerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SellerDTO, error)
	GetBySlug(ctx context.Context, slug string) (*SellerDTO, error)
	List(ctx context.Context, params pagination.Params) (pagination.Page[SellerDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSellerInput) (*SellerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (*SellerDTO, error)
	SearchUsers(ctx context.Context, params pagination.Params) (pagination.Page[users.UserDTO], error)
}

type service struct {
	repo  sellersRepository
	users usersSearcher
	files fileRemover
	logg  *logger.Logger
}

// NewService builds a seller service.
func NewService(repo sellersRepository, usersSvc usersSearcher, files fileRemover, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sellers repository required")
	}
	return &service{repo: repo, users: usersSvc, files: files, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, actorID *uuid.UUID, input CreateSellerInput) (*SellerDTO, error) {
	details := map[string]string{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		details["description"] = "is required"
	}
	adminID, err := uuid.Parse(strings.TrimSpace(input.Administrator))
	if err != nil {
		details["administrator"] = "must be a user id"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	seller := &models.Seller{
		ID:            uuid.New(),
		Name:          name,
		Slug:          slug.Make(name),
		Description:   strings.TrimSpace(input.Description),
		Address:       input.Address,
		Cell:          input.Cell,
		Tell:          input.Tell,
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Country:       input.Country,
		City:          input.City,
		Lat:           input.Lat,
		Long:          input.Long,
		Image:         models.Image{Thumbnail: models.SellerThumbnailPlaceholder},
		Administrator: &adminID,
		CreatedBy:     actorID,
	}

	if err := s.repo.Create(ctx, seller); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a seller with this name already exists").
				WithDetails(map[string]any{"slug": seller.Slug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller")
	}
	return FromModel(seller), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SellerDTO, error) {
	seller, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err)
	}
	return FromModel(seller), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*SellerDTO, error) {
	seller, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		return nil, notFoundOrDependency(err)
	}
	return FromModel(seller), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[SellerDTO], error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[SellerDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sellers")
	}

	docs := make([]SellerDTO, 0, len(rows))
	for i := range rows {
		docs = append(docs, *FromModel(&rows[i]))
	}
	return pagination.NewPage(docs, total, params), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSellerInput) (*SellerDTO, error) {
	fields := map[string]any{}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Administrator != nil {
		adminID, err := uuid.Parse(strings.TrimSpace(*input.Administrator))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "administrator must be a user id")
		}
		fields["administrator"] = adminID
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if input.Cell != nil {
		fields["cell"] = *input.Cell
	}
	if input.Tell != nil {
		fields["tell"] = *input.Tell
	}
	if input.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Country != nil {
		fields["country"] = *input.Country
	}
	if input.City != nil {
		fields["city"] = *input.City
	}
	if input.Lat != nil {
		fields["lat"] = *input.Lat
	}
	if input.Long != nil {
		fields["long"] = *input.Long
	}

	rows, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seller")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (*SellerDTO, error) {
	seller, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err)
	}

	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete seller")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
	}

	if s.files != nil {
		var fileErr error
		for _, rel := range seller.Image.UploadPaths() {
			fileErr = multierr.Append(fileErr, s.files.Remove(rel))
		}
		if fileErr != nil && s.logg != nil {
			s.logg.Error(ctx, "seller.delete_files_failed", fileErr)
		}
	}
	return FromModel(seller), nil
}

// SearchUsers finds candidate administrators by name.
func (s *service) SearchUsers(ctx context.Context, params pagination.Params) (pagination.Page[users.UserDTO], error) {
	if s.users == nil {
		return pagination.Page[users.UserDTO]{}, pkgerrors.New(pkgerrors.CodeInternal, "user search unavailable")
	}
	return s.users.List(ctx, params)
}

func notFoundOrDependency(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
}
