package promotions

import (
	"time"

	"github.com/dealboard/dealboard-backend/internal/sellers"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionDTO exposes promotion data in API responses.
type PromotionDTO struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	Slug            string             `json:"slug"`
	SellerID        uuid.UUID          `json:"seller_id"`
	Seller          *sellers.SellerDTO `json:"seller,omitempty"`
	Description     string             `json:"description"`
	Image           models.Image       `json:"image"`
	OriginalPrice   decimal.Decimal    `json:"original_price"`
	DiscountedPrice decimal.Decimal    `json:"discounted_price"`
	Active          bool               `json:"active"`
	Expiry          time.Time          `json:"expiry"`
	Tags            []string           `json:"tags"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CreatePromotionInput carries the creation body. Prices arrive as strings so
// no float precision is lost on the wire.
type CreatePromotionInput struct {
	Title           string    `json:"title" validate:"required"`
	SellerID        string    `json:"seller_id" validate:"required"`
	Description     string    `json:"description"`
	OriginalPrice   string    `json:"original_price" validate:"required"`
	DiscountedPrice string    `json:"discounted_price" validate:"required"`
	Expiry          time.Time `json:"expiry" validate:"required"`
	Tags            []string  `json:"tags"`
}

// UpdatePromotionInput lists the mutable fields.
type UpdatePromotionInput struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	OriginalPrice   *string    `json:"original_price"`
	DiscountedPrice *string    `json:"discounted_price"`
	Active          *bool      `json:"active"`
	Expiry          *time.Time `json:"expiry"`
	Tags            *[]string  `json:"tags"`
}

// FromModel maps the persisted promotion into a DTO.
func FromModel(m *models.Promotion) *PromotionDTO {
	if m == nil {
		return nil
	}
	tags := make([]string, 0, len(m.Tags))
	for _, tag := range m.Tags {
		tags = append(tags, tag.Name)
	}
	return &PromotionDTO{
		ID:              m.ID,
		Title:           m.Title,
		Slug:            m.Slug,
		SellerID:        m.SellerID,
		Seller:          sellers.FromModel(m.Seller),
		Description:     m.Description,
		Image:           m.Image,
		OriginalPrice:   m.OriginalPrice,
		DiscountedPrice: m.DiscountedPrice,
		Active:          m.Active,
		Expiry:          m.Expiry,
		Tags:            tags,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
