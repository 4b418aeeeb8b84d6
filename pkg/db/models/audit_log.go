package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records who changed what, with JSON snapshots either side.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Performer *uuid.UUID `gorm:"column:performer;type:uuid"`
	Action    string     `gorm:"not null;index"`
	Entity    string     `gorm:"column:entity;not null"`
	EntityID  *uuid.UUID `gorm:"column:entity_id;type:uuid"`
	Before    string     `gorm:"column:before"`
	After     string     `gorm:"column:after"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
