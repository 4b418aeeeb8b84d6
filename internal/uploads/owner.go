package uploads

import (
	"context"
	"time"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/google/uuid"
)

// Owner is the pipeline's view of any record that can hold an uploaded image.
// Seed feeds the deterministic basename together with CreatedAt.
type Owner struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Seed      string
	Image     models.Image
}

// OwnerAccessor loads and persists the image fields of one entity type.
// Each domain package registers its own implementation with the orchestrator;
// the pipeline never touches domain tables directly.
type OwnerAccessor interface {
	Load(ctx context.Context, id uuid.UUID) (*Owner, error)
	Save(ctx context.Context, id uuid.UUID, image models.Image) error
}
