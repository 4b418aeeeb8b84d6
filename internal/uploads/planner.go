package uploads

import (
	"context"
	"os"
	"path"
	"path/filepath"

	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
)

const uploadsRoot = "uploads"

// Layout holds the three root-relative directories provisioned for a profile.
// Paths are slash-separated regardless of host OS so they can be stored and
// served as URL fragments directly.
type Layout struct {
	OriginalPath   string
	CroppedPath    string
	ThumbnailsPath string
}

// Planner provisions per-profile directory trees under the public root.
// The root is injected at construction time; no request state is consulted.
type Planner struct {
	root string
}

func NewPlanner(publicRoot string) *Planner {
	return &Planner{root: publicRoot}
}

// Provision creates the profile's directory tree and returns its layout.
// Creating is idempotent: an existing tree is not an error.
func (p *Planner) Provision(ctx context.Context, slug string) (Layout, error) {
	if slug == "" {
		return Layout{}, pkgerrors.New(pkgerrors.CodeValidation, "profile slug is required")
	}

	layout := Layout{
		OriginalPath:   path.Join(uploadsRoot, slug, "original"),
		CroppedPath:    path.Join(uploadsRoot, slug, "cropped"),
		ThumbnailsPath: path.Join(uploadsRoot, slug, "thumbnails"),
	}

	for _, rel := range []string{layout.OriginalPath, layout.CroppedPath, layout.ThumbnailsPath} {
		abs := filepath.Join(p.root, filepath.FromSlash(rel))
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return Layout{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "provisioning upload directories").
				WithDetails(map[string]any{"path": rel})
		}
	}

	return layout, nil
}

// Abs resolves a stored root-relative path against the public root.
func (p *Planner) Abs(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(rel))
}
