package profiles

import (
	"fmt"
	"time"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ProfileDTO exposes an upload profile in API responses.
type ProfileDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Crop           bool      `json:"crop"`
	MaxSize        int64     `json:"max_size"`
	AspectRatio    string    `json:"aspect_ratio"`
	ThumbnailWidth int       `json:"thumbnail_width"`
	CroppedWidth   int       `json:"cropped_width"`
	OriginalPath   string    `json:"original_path"`
	CroppedPath    string    `json:"cropped_path"`
	ThumbnailsPath string    `json:"thumbnails_path"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateProfileInput carries the request body for profile creation. Crop is a
// pointer so a missing or non-boolean JSON value is distinguishable from
// false.
type CreateProfileInput struct {
	Name           string `json:"name"`
	Crop           *bool  `json:"crop"`
	MaxSize        *int64 `json:"max_size"`
	AspectRatio    string `json:"aspect_ratio"`
	ThumbnailWidth *int   `json:"thumbnail_width"`
	CroppedWidth   *int   `json:"cropped_width"`
}

// UpdateProfileInput lists the mutable fields. Slug and the directory paths
// are identity and never change after creation.
type UpdateProfileInput struct {
	Name           *string `json:"name"`
	Crop           *bool   `json:"crop"`
	MaxSize        *int64  `json:"max_size"`
	AspectRatio    *string `json:"aspect_ratio"`
	ThumbnailWidth *int    `json:"thumbnail_width"`
	CroppedWidth   *int    `json:"cropped_width"`
}

// FromModel maps the persisted profile into a DTO.
func FromModel(m *models.UploadProfile) *ProfileDTO {
	if m == nil {
		return nil
	}
	return &ProfileDTO{
		ID:             m.ID,
		Name:           m.Name,
		Slug:           m.Slug,
		Crop:           m.Crop,
		MaxSize:        m.MaxSize,
		AspectRatio:    fmt.Sprintf("%d:%d", m.AspectRatioW, m.AspectRatioH),
		ThumbnailWidth: m.ThumbnailWidth,
		CroppedWidth:   m.CroppedWidth,
		OriginalPath:   m.OriginalPath,
		CroppedPath:    m.CroppedPath,
		ThumbnailsPath: m.ThumbnailsPath,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
