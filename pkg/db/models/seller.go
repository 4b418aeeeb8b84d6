package models

import (
	"time"

	"github.com/google/uuid"
)

// Seller is a catalog merchant that promotions hang off.
type Seller struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name          string     `gorm:"not null;index"`
	Slug          string     `gorm:"not null;uniqueIndex"`
	Description   string     `gorm:"column:description"`
	Address       string     `gorm:"column:address"`
	Cell          string     `gorm:"column:cell"`
	Tell          string     `gorm:"column:tell"`
	Email         string     `gorm:"column:email"`
	Country       string     `gorm:"column:country"`
	City          string     `gorm:"column:city"`
	Lat           float64    `gorm:"column:lat"`
	Long          float64    `gorm:"column:long"`
	Image         Image      `gorm:"embedded"`
	Promotions    int        `gorm:"column:promotions;not null;default:0"`
	Administrator *uuid.UUID `gorm:"column:administrator;type:uuid"`
	CreatedBy     *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// SellerThumbnailPlaceholder is the default art shown before a crop exists.
const SellerThumbnailPlaceholder = "/assets/images/sellers/placeholder.png"
