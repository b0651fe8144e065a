// Package metrics exposes prometheus instrumentation for the slack and
// criticality update passes.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Objective label values.
const (
	ObjectiveSetup = "setup"
	ObjectiveHold  = "hold"
)

// Mode label values for the criticality recompute decision.
const (
	ModeIncremental = "incremental"
	ModeFull        = "full"
)

// Phase label values.
const (
	PhaseSlack       = "slack"
	PhaseCriticality = "criticality"
)

// Registry holds all metrics for the timing engines.
type Registry struct {
	registry *prometheus.Registry

	// Update-pass metrics
	UpdatesTotal        *prometheus.CounterVec
	UpdateDuration      *prometheus.HistogramVec
	PhaseDuration       *prometheus.HistogramVec
	FullRecomputesTotal prometheus.Counter

	// Scope metrics
	ModifiedPins *prometheus.HistogramVec
	DomainPairs  prometheus.Gauge
}

// NewRegistry creates a Registry with all metrics registered on a private
// prometheus registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.UpdatesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "timing_updates_total",
			Help: "Slack/criticality update passes by objective and criticality recompute mode",
		},
		[]string{"objective", "mode"},
	)

	r.UpdateDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timing_update_duration_seconds",
			Help:    "Wall time of a full update pass",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		},
		[]string{"objective"},
	)

	r.PhaseDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timing_update_phase_duration_seconds",
			Help:    "Wall time of the slack and criticality phases",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		},
		[]string{"objective", "phase"},
	)

	r.FullRecomputesTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "timing_full_recomputes_total",
			Help: "Setup criticality passes that could not reuse the cached domain aggregates",
		},
	)

	r.ModifiedPins = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timing_modified_pins",
			Help:    "Pins published as modified per update pass",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		},
		[]string{"objective", "kind"},
	)

	r.DomainPairs = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "timing_domain_pairs",
			Help: "Clock domain pairs observed in the most recent setup aggregation",
		},
	)

	return r
}

// PrometheusRegistry returns the underlying prometheus registry, for
// callers that expose it over HTTP.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordUpdate records one complete update pass.
func (r *Registry) RecordUpdate(objective, mode string, duration time.Duration) {
	r.UpdatesTotal.WithLabelValues(objective, mode).Inc()
	r.UpdateDuration.WithLabelValues(objective).Observe(duration.Seconds())
	if mode == ModeFull {
		r.FullRecomputesTotal.Inc()
	}
}

// RecordPhase records the duration of one phase (slack or criticality).
func (r *Registry) RecordPhase(objective, phase string, duration time.Duration) {
	r.PhaseDuration.WithLabelValues(objective, phase).Observe(duration.Seconds())
}

// RecordModifiedPins records how many pins an update pass published.
func (r *Registry) RecordModifiedPins(objective, kind string, count int) {
	r.ModifiedPins.WithLabelValues(objective, kind).Observe(float64(count))
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// DefaultRegistry returns the shared process-wide registry.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
