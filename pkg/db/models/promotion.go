package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Promotion is a time-limited discounted listing owned by a seller.
type Promotion struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title           string          `gorm:"not null;index"`
	Slug            string          `gorm:"not null;index:idx_promotions_slug_seller,unique"`
	SellerID        uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index:idx_promotions_slug_seller,unique"`
	Seller          *Seller         `gorm:"foreignKey:SellerID"`
	Description     string          `gorm:"column:description"`
	Image           Image           `gorm:"embedded"`
	OriginalPrice   decimal.Decimal `gorm:"column:original_price;type:numeric;not null"`
	DiscountedPrice decimal.Decimal `gorm:"column:discounted_price;type:numeric;not null"`
	Active          bool            `gorm:"column:active;not null;default:true"`
	Expiry          time.Time       `gorm:"column:expiry;not null"`
	Tags            []Tag           `gorm:"many2many:promotion_tags"`
	CreatedBy       *uuid.UUID      `gorm:"column:created_by;type:uuid"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PromotionThumbnailPlaceholder is the default art shown before a crop exists.
const PromotionThumbnailPlaceholder = "/assets/images/promotions/placeholder.png"
