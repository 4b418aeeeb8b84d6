package uploads

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestProvisionCreatesLayout(t *testing.T) {
	root := t.TempDir()
	planner := NewPlanner(root)

	layout, err := planner.Provision(context.Background(), "seller-logos")
	require.NoError(t, err)

	require.Equal(t, "uploads/seller-logos/original", layout.OriginalPath)
	require.Equal(t, "uploads/seller-logos/cropped", layout.CroppedPath)
	require.Equal(t, "uploads/seller-logos/thumbnails", layout.ThumbnailsPath)

	for _, rel := range []string{layout.OriginalPath, layout.CroppedPath, layout.ThumbnailsPath} {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestProvisionIsIdempotent(t *testing.T) {
	root := t.TempDir()
	planner := NewPlanner(root)

	first, err := planner.Provision(context.Background(), "avatars")
	require.NoError(t, err)

	second, err := planner.Provision(context.Background(), "avatars")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestProvisionRejectsEmptySlug(t *testing.T) {
	planner := NewPlanner(t.TempDir())

	_, err := planner.Provision(context.Background(), "")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestProvisionReportsStorageFault(t *testing.T) {
	root := t.TempDir()
	// A file where the uploads dir should be makes MkdirAll fail.
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploads"), []byte("x"), 0o644))
	planner := NewPlanner(root)

	_, err := planner.Provision(context.Background(), "blocked")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStorage, typed.Code())
}
