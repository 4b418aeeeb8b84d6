package uploads

import (
	"context"
	"time"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/dealboard/dealboard-backend/pkg/enums"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/dealboard/dealboard-backend/pkg/metrics"
	"github.com/google/uuid"
)

const (
	stageIngest = "ingest"
	stageDerive = "derive"
)

// ProfileResolver looks up upload profiles by slug.
type ProfileResolver interface {
	ModelBySlug(ctx context.Context, slug string) (*models.UploadProfile, error)
}

// Orchestrator ties profile resolution, owner access and the two pipeline
// stages together. Entity types plug in through the accessor registry; the
// orchestrator never special-cases a domain.
//
// Concurrent operations against the same owner are not serialized: the last
// write wins, matching how the dashboard has always behaved.
type Orchestrator struct {
	profiles  ProfileResolver
	accessors map[enums.EntityKind]OwnerAccessor
	ingestor  *Ingestor
	generator *Generator
	pipeline  *metrics.PipelineMetrics
	logg      *logger.Logger
}

func NewOrchestrator(profiles ProfileResolver, ingestor *Ingestor, generator *Generator, pipeline *metrics.PipelineMetrics, logg *logger.Logger) *Orchestrator {
	return &Orchestrator{
		profiles:  profiles,
		accessors: map[enums.EntityKind]OwnerAccessor{},
		ingestor:  ingestor,
		generator: generator,
		pipeline:  pipeline,
		logg:      logg,
	}
}

// Register wires an entity kind's accessor into the pipeline.
func (o *Orchestrator) Register(kind enums.EntityKind, accessor OwnerAccessor) {
	o.accessors[kind] = accessor
}

// HandleUpload ingests a new original for the owning record.
func (o *Orchestrator) HandleUpload(ctx context.Context, kind enums.EntityKind, ownerID uuid.UUID, profileSlug string, upload Upload) (string, error) {
	profile, accessor, owner, err := o.resolve(ctx, kind, ownerID, profileSlug)
	if err != nil {
		return "", err
	}

	start := time.Now()
	rel, err := o.ingestor.Ingest(ctx, accessor, owner, profile, upload)
	o.observe(stageIngest, profile.Slug, start, err)
	return rel, err
}

// HandleCrop derives the thumbnail and cropped renditions for the owning record.
func (o *Orchestrator) HandleCrop(ctx context.Context, kind enums.EntityKind, ownerID uuid.UUID, profileSlug string, rect CropRect) (Renditions, error) {
	profile, accessor, owner, err := o.resolve(ctx, kind, ownerID, profileSlug)
	if err != nil {
		return Renditions{}, err
	}

	start := time.Now()
	out, err := o.generator.Derive(ctx, accessor, owner, profile, rect)
	o.observe(stageDerive, profile.Slug, start, err)
	return out, err
}

func (o *Orchestrator) resolve(ctx context.Context, kind enums.EntityKind, ownerID uuid.UUID, profileSlug string) (*models.UploadProfile, OwnerAccessor, *Owner, error) {
	accessor, ok := o.accessors[kind]
	if !ok {
		return nil, nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported entity kind").
			WithDetails(map[string]any{"kind": string(kind)})
	}

	profile, err := o.profiles.ModelBySlug(ctx, profileSlug)
	if err != nil {
		return nil, nil, nil, err
	}

	owner, err := accessor.Load(ctx, ownerID)
	if err != nil {
		return nil, nil, nil, err
	}
	return profile, accessor, owner, nil
}

func (o *Orchestrator) observe(stage, profileSlug string, start time.Time, err error) {
	o.pipeline.ObserveDuration(stage, profileSlug, time.Since(start))
	if err != nil {
		o.pipeline.IncFailure(stage, profileSlug)
		return
	}
	o.pipeline.IncSuccess(stage, profileSlug)
}
