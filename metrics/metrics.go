// Package metrics instruments module instantiation and chunk loading with
// Prometheus collectors.
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load modes used as the "mode" label.
const (
	ModeSync  = "sync"
	ModeAsync = "async"
)

// Failure reasons used as the "reason" label.
const (
	ReasonFactoryMissing   = "factory_missing"
	ReasonFactoryExecution = "factory_execution"
)

// Metrics provides observability for the chunk runtime.
type Metrics struct {
	ModulesInstantiated   prometheus.Counter
	InstantiationFailures *prometheus.CounterVec
	FactoryDuration       prometheus.Histogram
	ChunksLoaded          *prometheus.CounterVec
	ChunkLoadFailures     *prometheus.CounterVec
	NegativeCacheHits     prometheus.Counter
}

// New creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ModulesInstantiated: f.NewCounter(prometheus.CounterOpts{
			Name: "chunkrt_modules_instantiated_total",
			Help: "Total number of modules whose factory completed",
		}),
		InstantiationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chunkrt_instantiation_failures_total",
			Help: "Total number of failed module instantiations by reason",
		}, []string{"reason"}),
		FactoryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "chunkrt_factory_duration_seconds",
			Help:    "Duration of module factory execution",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		ChunksLoaded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chunkrt_chunks_loaded_total",
			Help: "Total number of chunks merged into the factory table",
		}, []string{"mode"}),
		ChunkLoadFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chunkrt_chunk_load_failures_total",
			Help: "Total number of failed chunk loads",
		}, []string{"mode"}),
		NegativeCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "chunkrt_chunk_negative_cache_hits_total",
			Help: "Async chunk loads answered with a memoized failure",
		}),
	}
}

// IncInstantiated records a module that finished loading.
func (m *Metrics) IncInstantiated() {
	if m == nil {
		return
	}
	m.ModulesInstantiated.Inc()
}

// IncInstantiationFailure records a failed instantiation.
func (m *Metrics) IncInstantiationFailure(reason string) {
	if m == nil {
		return
	}
	m.InstantiationFailures.WithLabelValues(reason).Inc()
}

// ObserveFactory records the duration of a factory run.
// Call with time.Now() taken before the factory started.
func (m *Metrics) ObserveFactory(start time.Time) {
	if m == nil {
		return
	}
	m.FactoryDuration.Observe(time.Since(start).Seconds())
}

// IncChunkLoaded records a chunk installed through mode.
func (m *Metrics) IncChunkLoaded(mode string) {
	if m == nil {
		return
	}
	m.ChunksLoaded.WithLabelValues(mode).Inc()
}

// IncChunkLoadFailure records a chunk that failed to load through mode.
func (m *Metrics) IncChunkLoadFailure(mode string) {
	if m == nil {
		return
	}
	m.ChunkLoadFailures.WithLabelValues(mode).Inc()
}

// IncNegativeCacheHit records an async load served from a memoized failure.
func (m *Metrics) IncNegativeCacheHit() {
	if m == nil {
		return
	}
	m.NegativeCacheHits.Inc()
}
