package uploads

import (
	"bytes"
	"context"
	"testing"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/dealboard/dealboard-backend/pkg/enums"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	profile *models.UploadProfile
}

func (s *stubResolver) ModelBySlug(_ context.Context, slug string) (*models.UploadProfile, error) {
	if s.profile == nil || s.profile.Slug != slug {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upload profile not found")
	}
	return s.profile, nil
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *Planner, *models.UploadProfile, *stubAccessor) {
	t.Helper()
	planner := NewPlanner(t.TempDir())
	profile := testProfile(t, planner)
	accessor := &stubAccessor{owner: testOwner("Green Valley Market")}

	orch := NewOrchestrator(
		&stubResolver{profile: profile},
		NewIngestor(planner, nil),
		NewGenerator(planner, 90, nil),
		metrics.NewPipelineMetrics(nil),
		nil,
	)
	orch.Register(enums.EntityKindSeller, accessor)
	return orch, planner, profile, accessor
}

func TestHandleUploadThenCrop(t *testing.T) {
	orch, _, profile, accessor := newTestOrchestrator(t)
	payload := encodeTestJPEG(t, 1600, 1200)

	rel, err := orch.HandleUpload(context.Background(), enums.EntityKindSeller, accessor.owner.ID, profile.Slug, Upload{
		Filename: "store.jpg",
		Size:     int64(len(payload)),
		Reader:   bytes.NewReader(payload),
	})
	require.NoError(t, err)
	require.NotEmpty(t, rel)

	out, err := orch.HandleCrop(context.Background(), enums.EntityKindSeller, accessor.owner.ID, profile.Slug, CropRect{Width: 1200, Height: 900})
	require.NoError(t, err)
	require.NotEmpty(t, out.Thumbnail)
	require.NotEmpty(t, out.Cropped)
}

func TestHandleUploadUnknownKind(t *testing.T) {
	orch, _, profile, accessor := newTestOrchestrator(t)

	_, err := orch.HandleUpload(context.Background(), enums.EntityKindUser, accessor.owner.ID, profile.Slug, Upload{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestHandleUploadUnknownProfile(t *testing.T) {
	orch, _, _, accessor := newTestOrchestrator(t)

	_, err := orch.HandleUpload(context.Background(), enums.EntityKindSeller, accessor.owner.ID, "nope", Upload{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestHandleCropUnknownOwner(t *testing.T) {
	orch, _, profile, _ := newTestOrchestrator(t)

	_, err := orch.HandleCrop(context.Background(), enums.EntityKindSeller, uuid.New(), profile.Slug, CropRect{Width: 10, Height: 10})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
