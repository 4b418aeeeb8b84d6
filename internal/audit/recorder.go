package audit

import (
	"context"
	"encoding/json"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recorder writes audit trail rows. Failures are logged and swallowed so an
// audit outage never blocks the mutation it describes.
type Recorder struct {
	db   *gorm.DB
	logg *logger.Logger
}

func NewRecorder(db *gorm.DB, logg *logger.Logger) *Recorder {
	return &Recorder{db: db, logg: logg}
}

// Record persists one audit entry best-effort. Before and after are
// marshalled to JSON; values that cannot marshal are stored empty.
func (r *Recorder) Record(ctx context.Context, performer *uuid.UUID, action, entity string, entityID *uuid.UUID, before, after any) {
	if r == nil || r.db == nil {
		return
	}

	entry := models.AuditLog{
		ID:        uuid.New(),
		Performer: performer,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Before:    marshal(before),
		After:     marshal(after),
	}

	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil && r.logg != nil {
		r.logg.Error(r.logg.WithFields(ctx, map[string]any{"action": action, "entity": entity}), "audit.record_failed", err)
	}
}

func marshal(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
