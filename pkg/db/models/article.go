package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is a free-form content page authored from the dashboard.
type Article struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title     string     `gorm:"not null;uniqueIndex"`
	Slug      string     `gorm:"not null;index"`
	Content   string     `gorm:"column:content"`
	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
