package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records outcomes of the image ingest and derive stages.
type PipelineMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewPipelineMetrics registers the upload pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upload_stage_duration_seconds",
		Help:    "Duration of upload pipeline stages in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage", "profile"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_stage_success",
		Help: "Successful upload pipeline stage executions.",
	}, []string{"stage", "profile"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_stage_failure",
		Help: "Failed upload pipeline stage executions.",
	}, []string{"stage", "profile"})
	reg.MustRegister(duration, success, failure)
	return &PipelineMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the stage under the named profile.
func (p *PipelineMetrics) ObserveDuration(stage, profile string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(stage), normalizeLabel(profile)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the stage under the named profile.
func (p *PipelineMetrics) IncSuccess(stage, profile string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(stage), normalizeLabel(profile)).Inc()
}

// IncFailure increments the failure counter for the stage under the named profile.
func (p *PipelineMetrics) IncFailure(stage, profile string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(stage), normalizeLabel(profile)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
