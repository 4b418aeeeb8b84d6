package users

import (
	"context"
	"errors"

	"github.com/dealboard/dealboard-backend/internal/uploads"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerAccessor adapts users to the upload pipeline. The basename seed is the
// user's full name.
type OwnerAccessor struct {
	repo usersRepository
}

func NewOwnerAccessor(repo usersRepository) *OwnerAccessor {
	return &OwnerAccessor{repo: repo}
}

func (a *OwnerAccessor) Load(ctx context.Context, id uuid.UUID) (*uploads.Owner, error) {
	user, err := a.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return &uploads.Owner{
		ID:        user.ID,
		CreatedAt: user.CreatedAt,
		Seed:      user.FullName,
		Image:     user.Image,
	}, nil
}

func (a *OwnerAccessor) Save(ctx context.Context, id uuid.UUID, image models.Image) error {
	return a.repo.UpdateImage(ctx, id, image)
}
