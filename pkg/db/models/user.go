package models

import (
	"time"

	"github.com/dealboard/dealboard-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents a dashboard principal.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	FullName     string         `gorm:"column:full_name;not null;index"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:basic"`
	Image        Image          `gorm:"embedded"`
	CreatedBy    *uuid.UUID     `gorm:"column:created_by;type:uuid"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
