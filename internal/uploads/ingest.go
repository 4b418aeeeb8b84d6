package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/gosimple/slug"
)

// Upload carries one multipart file into the pipeline.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// Ingestor persists originals into a profile's original directory and commits
// the owner's Image.Original reference afterwards. Exactly one file write and
// one record persist per call.
type Ingestor struct {
	planner *Planner
	logg    *logger.Logger
}

func NewIngestor(planner *Planner, logg *logger.Logger) *Ingestor {
	return &Ingestor{planner: planner, logg: logg}
}

// Basename derives the deterministic file stem for an owner. Same owner,
// same stem: re-uploads and re-crops overwrite instead of accumulating.
func Basename(owner *Owner) string {
	return slug.Make(fmt.Sprintf("%s %d", owner.Seed, owner.CreatedAt.UnixMilli()))
}

// Ingest validates the upload, writes the original to disk and only then
// records the path on the owning record.
func (ing *Ingestor) Ingest(ctx context.Context, accessor OwnerAccessor, owner *Owner, profile *models.UploadProfile, upload Upload) (string, error) {
	if upload.Reader == nil || upload.Size <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image file is required")
	}

	maxSize := profile.MaxSize
	if maxSize <= 0 {
		maxSize = models.DefaultMaxUploadBytes
	}
	if upload.Size > maxSize {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the profile size limit").
			WithDetails(map[string]any{"max_size": maxSize, "size": upload.Size})
	}

	ext := strings.ToLower(path.Ext(upload.Filename))
	rel := path.Join(profile.OriginalPath, Basename(owner)+ext)

	if err := ing.writeFile(rel, upload.Reader); err != nil {
		return "", err
	}

	owner.Image.Original = rel
	if err := accessor.Save(ctx, owner.ID, owner.Image); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "recording original path").
			WithDetails(map[string]any{"path": rel})
	}

	if ing.logg != nil {
		ing.logg.Info(ing.logg.WithFields(ctx, map[string]any{"path": rel}), "upload.ingested")
	}
	return rel, nil
}

func (ing *Ingestor) writeFile(rel string, src io.Reader) error {
	abs := ing.planner.Abs(rel)
	dst, err := os.Create(abs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "writing original").
			WithDetails(map[string]any{"path": rel})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "writing original").
			WithDetails(map[string]any{"path": rel})
	}
	return nil
}
