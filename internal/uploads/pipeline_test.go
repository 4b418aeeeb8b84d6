package uploads

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"testing"
	"time"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubAccessor struct {
	owner   *Owner
	saves   []models.Image
	saveErr error
}

func (s *stubAccessor) Load(_ context.Context, id uuid.UUID) (*Owner, error) {
	if s.owner == nil || s.owner.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "owner not found")
	}
	return s.owner, nil
}

func (s *stubAccessor) Save(_ context.Context, _ uuid.UUID, img models.Image) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves = append(s.saves, img)
	return nil
}

func testProfile(t *testing.T, planner *Planner) *models.UploadProfile {
	t.Helper()
	layout, err := planner.Provision(context.Background(), "sellers")
	require.NoError(t, err)

	return &models.UploadProfile{
		ID:             uuid.New(),
		Name:           "Sellers",
		Slug:           "sellers",
		Crop:           true,
		MaxSize:        models.DefaultMaxUploadBytes,
		AspectRatioW:   4,
		AspectRatioH:   3,
		ThumbnailWidth: 300,
		CroppedWidth:   900,
		OriginalPath:   layout.OriginalPath,
		CroppedPath:    layout.CroppedPath,
		ThumbnailsPath: layout.ThumbnailsPath,
	}
}

func testOwner(seed string) *Owner {
	return &Owner{
		ID:        uuid.New(),
		CreatedAt: time.UnixMilli(1700000000000),
		Seed:      seed,
	}
}

func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 120, G: 30, B: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func TestBasenameIsDeterministic(t *testing.T) {
	owner := testOwner("Green Valley Market")
	require.Equal(t, "green-valley-market-1700000000000", Basename(owner))
	require.Equal(t, Basename(owner), Basename(owner))
}

func TestIngestWritesFileThenPersists(t *testing.T) {
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	owner := testOwner("Green Valley Market")
	accessor := &stubAccessor{owner: owner}

	payload := encodeTestJPEG(t, 1200, 900)
	ingestor := NewIngestor(planner, nil)

	rel, err := ingestor.Ingest(context.Background(), accessor, owner, profile, Upload{
		Filename: "storefront.JPG",
		Size:     int64(len(payload)),
		Reader:   bytes.NewReader(payload),
	})
	require.NoError(t, err)
	require.Equal(t, "uploads/sellers/original/green-valley-market-1700000000000.jpg", rel)

	written, err := os.ReadFile(planner.Abs(rel))
	require.NoError(t, err)
	require.Equal(t, payload, written)

	require.Len(t, accessor.saves, 1)
	require.Equal(t, rel, accessor.saves[0].Original)
}

func TestIngestRejectsEmptyAndOversizedUploads(t *testing.T) {
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	owner := testOwner("seed")
	ingestor := NewIngestor(planner, nil)

	_, err := ingestor.Ingest(context.Background(), &stubAccessor{owner: owner}, owner, profile, Upload{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = ingestor.Ingest(context.Background(), &stubAccessor{owner: owner}, owner, profile, Upload{
		Filename: "big.jpg",
		Size:     profile.MaxSize + 1,
		Reader:   bytes.NewReader([]byte("x")),
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestIngestDoesNotPersistOnWriteFailure(t *testing.T) {
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	owner := testOwner("seed")
	accessor := &stubAccessor{owner: owner}

	// Point the profile at a directory that was never provisioned.
	profile.OriginalPath = "uploads/missing/original"

	ingestor := NewIngestor(planner, nil)
	payload := encodeTestJPEG(t, 40, 30)
	_, err := ingestor.Ingest(context.Background(), accessor, owner, profile, Upload{
		Filename: "f.jpg",
		Size:     int64(len(payload)),
		Reader:   bytes.NewReader(payload),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStorage, typed.Code())
	require.Empty(t, accessor.saves)
}

func ingestFixture(t *testing.T, planner *Planner, profile *models.UploadProfile, owner *Owner, accessor *stubAccessor, w, h int) {
	t.Helper()
	payload := encodeTestJPEG(t, w, h)
	_, err := NewIngestor(planner, nil).Ingest(context.Background(), accessor, owner, profile, Upload{
		Filename: "source.jpg",
		Size:     int64(len(payload)),
		Reader:   bytes.NewReader(payload),
	})
	require.NoError(t, err)
}

func TestDeriveProducesAspectLockedRenditions(t *testing.T) {
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	owner := testOwner("Green Valley Market")
	accessor := &stubAccessor{owner: owner}
	ingestFixture(t, planner, profile, owner, accessor, 1600, 1200)

	gen := NewGenerator(planner, 90, nil)
	out, err := gen.Derive(context.Background(), accessor, owner, profile, CropRect{X: 0, Y: 0, Width: 1200, Height: 900})
	require.NoError(t, err)

	require.Equal(t, "uploads/sellers/thumbnails/green-valley-market-1700000000000.jpg", out.Thumbnail)
	require.Equal(t, "uploads/sellers/cropped/green-valley-market-1700000000000.jpg", out.Cropped)

	thumb, err := imaging.Open(planner.Abs(out.Thumbnail))
	require.NoError(t, err)
	require.Equal(t, image.Pt(300, 225), thumb.Bounds().Size())

	cropped, err := imaging.Open(planner.Abs(out.Cropped))
	require.NoError(t, err)
	require.Equal(t, image.Pt(900, 675), cropped.Bounds().Size())

	// Persist order: original, then thumbnail, then cropped.
	require.Len(t, accessor.saves, 3)
	require.Empty(t, accessor.saves[0].Thumbnail)
	require.Equal(t, out.Thumbnail, accessor.saves[1].Thumbnail)
	require.Empty(t, accessor.saves[1].Cropped)
	require.Equal(t, out.Cropped, accessor.saves[2].Cropped)
}

func TestDeriveClampsNegativeOffsets(t *testing.T) {
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	owner := testOwner("clamp")
	accessor := &stubAccessor{owner: owner}
	ingestFixture(t, planner, profile, owner, accessor, 800, 600)

	gen := NewGenerator(planner, 90, nil)
	out, err := gen.Derive(context.Background(), accessor, owner, profile, CropRect{X: -50, Y: -20, Width: 400, Height: 300})
	require.NoError(t, err)

	thumb, err := imaging.Open(planner.Abs(out.Thumbnail))
	require.NoError(t, err)
	require.Equal(t, image.Pt(300, 225), thumb.Bounds().Size())
}

func TestDeriveWithoutOriginalIsNotFound(t *testing.T) {
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	owner := testOwner("empty")

	gen := NewGenerator(planner, 90, nil)
	_, err := gen.Derive(context.Background(), &stubAccessor{owner: owner}, owner, profile, CropRect{Width: 10, Height: 10})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeriveStageTwoFailureKeepsThumbnailCommit(t *testing.T) {
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	owner := testOwner("partial")
	accessor := &stubAccessor{owner: owner}
	ingestFixture(t, planner, profile, owner, accessor, 800, 600)

	// Break stage two only.
	require.NoError(t, os.RemoveAll(planner.Abs(profile.CroppedPath)))

	gen := NewGenerator(planner, 90, nil)
	out, err := gen.Derive(context.Background(), accessor, owner, profile, CropRect{Width: 400, Height: 300})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeProcessing, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, "cropped", details["stage"])

	// Stage one committed and its persist survived.
	require.NotEmpty(t, out.Thumbnail)
	last := accessor.saves[len(accessor.saves)-1]
	require.Equal(t, out.Thumbnail, last.Thumbnail)
	require.Empty(t, last.Cropped)
}

func TestDerivePersistFailureIsDependencyFault(t *testing.T) {
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	owner := testOwner("unsaved")
	accessor := &stubAccessor{owner: owner}
	ingestFixture(t, planner, profile, owner, accessor, 800, 600)

	// The rendition renders fine; only the owner record write fails.
	accessor.saveErr = pkgerrors.New(pkgerrors.CodeDependency, "connection reset")

	gen := NewGenerator(planner, 90, nil)
	_, err := gen.Derive(context.Background(), accessor, owner, profile, CropRect{Width: 400, Height: 300})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestDeriveOverwritesOnRecrop(t *testing.T) {
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	owner := testOwner("recrop")
	accessor := &stubAccessor{owner: owner}
	ingestFixture(t, planner, profile, owner, accessor, 1600, 1200)

	gen := NewGenerator(planner, 90, nil)
	first, err := gen.Derive(context.Background(), accessor, owner, profile, CropRect{Width: 800, Height: 600})
	require.NoError(t, err)

	second, err := gen.Derive(context.Background(), accessor, owner, profile, CropRect{X: 100, Y: 100, Width: 400, Height: 300})
	require.NoError(t, err)

	// Deterministic basename: same paths both times, no accumulation.
	require.Equal(t, first, second)
	entries, err := os.ReadDir(planner.Abs(profile.ThumbnailsPath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRenditionHeightRounds(t *testing.T) {
	require.Equal(t, 225, RenditionHeight(300, 4, 3))
	require.Equal(t, 675, RenditionHeight(900, 4, 3))
	require.Equal(t, 169, RenditionHeight(300, 16, 9))
	require.Equal(t, 300, RenditionHeight(300, 1, 1))
}
