package uploads

import (
	"context"
	"image"
	"math"
	"path"
	"strings"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/disintegration/imaging"
)

const (
	stageThumbnail = "thumbnail"
	stageCropped   = "cropped"
)

// CropRect is the caller-selected region of the original, in pixels.
type CropRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width" validate:"required,gt=0"`
	Height int `json:"height" validate:"required,gt=0"`
}

// Renditions reports the root-relative paths written by a derive run.
type Renditions struct {
	Thumbnail string `json:"thumbnail"`
	Cropped   string `json:"cropped"`
}

// Generator produces the thumbnail and cropped renditions from a stored
// original. The two stages commit independently: a stage-two failure leaves
// the already-persisted thumbnail in place.
type Generator struct {
	planner *Planner
	quality int
	logg    *logger.Logger
}

func NewGenerator(planner *Planner, jpegQuality int, logg *logger.Logger) *Generator {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = 90
	}
	return &Generator{planner: planner, quality: jpegQuality, logg: logg}
}

// RenditionHeight converts a target width into a height that preserves the
// profile's aspect ratio, rounding to the nearest pixel.
func RenditionHeight(width, ratioW, ratioH int) int {
	return int(math.Round(float64(width) * float64(ratioH) / float64(ratioW)))
}

// Derive runs both stages against the owner's original. The rect's X and Y
// are clamped at zero; width and height are trusted to have been validated
// upstream.
func (g *Generator) Derive(ctx context.Context, accessor OwnerAccessor, owner *Owner, profile *models.UploadProfile, rect CropRect) (Renditions, error) {
	if owner.Image.Original == "" {
		return Renditions{}, pkgerrors.New(pkgerrors.CodeNotFound, "no original image to crop")
	}

	if rect.X < 0 {
		rect.X = 0
	}
	if rect.Y < 0 {
		rect.Y = 0
	}

	base := strings.TrimSuffix(path.Base(owner.Image.Original), path.Ext(owner.Image.Original))
	var out Renditions

	thumbRel := path.Join(profile.ThumbnailsPath, base+".jpg")
	thumbHeight := RenditionHeight(profile.ThumbnailWidth, profile.AspectRatioW, profile.AspectRatioH)
	if err := g.render(owner.Image.Original, thumbRel, rect, profile.ThumbnailWidth, thumbHeight, stageThumbnail); err != nil {
		return out, err
	}
	owner.Image.Thumbnail = thumbRel
	if err := accessor.Save(ctx, owner.ID, owner.Image); err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording thumbnail path").
			WithDetails(map[string]any{"stage": stageThumbnail, "path": thumbRel})
	}
	out.Thumbnail = thumbRel

	croppedRel := path.Join(profile.CroppedPath, base+".jpg")
	croppedHeight := RenditionHeight(profile.CroppedWidth, profile.AspectRatioW, profile.AspectRatioH)
	if err := g.render(owner.Image.Original, croppedRel, rect, profile.CroppedWidth, croppedHeight, stageCropped); err != nil {
		return out, err
	}
	owner.Image.Cropped = croppedRel
	if err := accessor.Save(ctx, owner.ID, owner.Image); err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording cropped path").
			WithDetails(map[string]any{"stage": stageCropped, "path": croppedRel})
	}
	out.Cropped = croppedRel

	if g.logg != nil {
		fields := map[string]any{"thumbnail": out.Thumbnail, "cropped": out.Cropped}
		g.logg.Info(g.logg.WithFields(ctx, fields), "upload.derived")
	}
	return out, nil
}

// render re-opens the original for every rendition so each stage works from
// the source of truth, not an in-memory intermediate.
func (g *Generator) render(originalRel, destRel string, rect CropRect, width, height int, stage string) error {
	src, err := imaging.Open(g.planner.Abs(originalRel), imaging.AutoOrientation(true))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeProcessing, err, "opening original").
			WithDetails(map[string]any{"stage": stage, "path": originalRel})
	}

	cropped := imaging.Crop(src, image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height))
	resized := imaging.Resize(cropped, width, height, imaging.Lanczos)

	if err := imaging.Save(resized, g.planner.Abs(destRel), imaging.JPEGQuality(g.quality)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeProcessing, err, "writing rendition").
			WithDetails(map[string]any{"stage": stage, "path": destRel})
	}
	return nil
}
