package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxUploadBytes applies when a profile omits maxSize.
const DefaultMaxUploadBytes int64 = 2 << 20

// UploadProfile binds an entity type to a directory layout, a locked aspect
// ratio and the target widths of its derived renditions. Slug and the three
// path fields are identity: minted once at creation, never recomputed.
type UploadProfile struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           string     `gorm:"not null;index"`
	Slug           string     `gorm:"not null;uniqueIndex"`
	Crop           bool       `gorm:"column:crop;not null"`
	MaxSize        int64      `gorm:"column:max_size;not null"`
	AspectRatioW   int        `gorm:"column:aspect_ratio_w;not null"`
	AspectRatioH   int        `gorm:"column:aspect_ratio_h;not null"`
	ThumbnailWidth int        `gorm:"column:thumbnail_width;not null"`
	CroppedWidth   int        `gorm:"column:cropped_width;not null"`
	OriginalPath   string     `gorm:"column:original_path;not null"`
	CroppedPath    string     `gorm:"column:cropped_path;not null"`
	ThumbnailsPath string     `gorm:"column:thumbnails_path;not null"`
	CreatedBy      *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
