package sellers

import (
	"time"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/google/uuid"
)

// SellerDTO exposes seller data in API responses.
type SellerDTO struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Description   string       `json:"description"`
	Address       string       `json:"address,omitempty"`
	Cell          string       `json:"cell,omitempty"`
	Tell          string       `json:"tell,omitempty"`
	Email         string       `json:"email,omitempty"`
	Country       string       `json:"country,omitempty"`
	City          string       `json:"city,omitempty"`
	Lat           float64      `json:"lat"`
	Long          float64      `json:"long"`
	Image         models.Image `json:"image"`
	Promotions    int          `json:"promotions"`
	Administrator *uuid.UUID   `json:"administrator,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CreateSellerInput carries the creation body.
type CreateSellerInput struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	Administrator string  `json:"administrator" validate:"required"`
	Address       string  `json:"address"`
	Cell          string  `json:"cell"`
	Tell          string  `json:"tell"`
	Email         string  `json:"email"`
	Country       string  `json:"country"`
	City          string  `json:"city"`
	Lat           float64 `json:"lat"`
	Long          float64 `json:"long"`
}

// UpdateSellerInput lists the mutable fields.
type UpdateSellerInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Administrator *string  `json:"administrator"`
	Address       *string  `json:"address"`
	Cell          *string  `json:"cell"`
	Tell          *string  `json:"tell"`
	Email         *string  `json:"email"`
	Country       *string  `json:"country"`
	City          *string  `json:"city"`
	Lat           *float64 `json:"lat"`
	Long          *float64 `json:"long"`
}

// FromModel maps the persisted seller into a DTO.
func FromModel(m *models.Seller) *SellerDTO {
	if m == nil {
		return nil
	}
	return &SellerDTO{
		ID:            m.ID,
		Name:          m.Name,
		Slug:          m.Slug,
		Description:   m.Description,
		Address:       m.Address,
		Cell:          m.Cell,
		Tell:          m.Tell,
		Email:         m.Email,
		Country:       m.Country,
		City:          m.City,
		Lat:           m.Lat,
		Long:          m.Long,
		Image:         m.Image,
		Promotions:    m.Promotions,
		Administrator: m.Administrator,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
