package sellers

import (
	"context"
	"errors"

	"github.com/dealboard/dealboard-backend/internal/uploads"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerAccessor adapts sellers to the upload pipeline. The basename seed is
// the seller name.
type OwnerAccessor struct {
	repo sellersRepository
}

func NewOwnerAccessor(repo sellersRepository) *OwnerAccessor {
	return &OwnerAccessor{repo: repo}
}

func (a *OwnerAccessor) Load(ctx context.Context, id uuid.UUID) (*uploads.Owner, error) {
	seller, err := a.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}
	return &uploads.Owner{
		ID:        seller.ID,
		CreatedAt: seller.CreatedAt,
		Seed:      seller.Name,
		Image:     seller.Image,
	}, nil
}

func (a *OwnerAccessor) Save(ctx context.Context, id uuid.UUID, image models.Image) error {
	return a.repo.UpdateImage(ctx, id, image)
}
