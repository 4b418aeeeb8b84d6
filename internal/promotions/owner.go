package promotions

import (
	"context"
	"errors"

	"github.com/dealboard/dealboard-backend/internal/uploads"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerAccessor adapts promotions to the upload pipeline. The basename seed
// is the promotion slug.
type OwnerAccessor struct {
	repo promotionsRepository
}

func NewOwnerAccessor(repo promotionsRepository) *OwnerAccessor {
	return &OwnerAccessor{repo: repo}
}

func (a *OwnerAccessor) Load(ctx context.Context, id uuid.UUID) (*uploads.Owner, error) {
	promotion, err := a.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	return &uploads.Owner{
		ID:        promotion.ID,
		CreatedAt: promotion.CreatedAt,
		Seed:      promotion.Slug,
		Image:     promotion.Image,
	}, nil
}

func (a *OwnerAccessor) Save(ctx context.Context, id uuid.UUID, image models.Image) error {
	return a.repo.UpdateImage(ctx, id, image)
}
