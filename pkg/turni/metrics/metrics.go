// Package metrics exposes Prometheus counters for schedule analysis runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "turni"
	defaultSubsystem = "analysis"
)

// Run results used as the "result" label of runs_total.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Recorder records analysis metrics on its own registry. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	documents    *prometheus.CounterVec
	events       prometheus.Counter
	ambiguities  prometheus.Counter
	cacheLookups *prometheus.CounterVec
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(r *Recorder) { r.namespace = ns }
}

// WithBuckets sets the run duration histogram buckets, in seconds.
func WithBuckets(b []float64) Option {
	return func(r *Recorder) { r.buckets = b }
}

// NewRecorder creates a Recorder on a fresh registry.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		subsystem: defaultSubsystem,
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)
	r.documents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "documents_total",
		Help:      "Schedule documents seen, by outcome status",
	}, []string{"status"})
	r.events = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "events_total",
		Help:      "Shift events or matrix increments produced",
	})
	r.ambiguities = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "ambiguous_matches_total",
		Help:      "Fuzzy name matches where more than one corpus entry fit",
	})
	r.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "cache_lookups_total",
		Help:      "Document cache lookups, by result",
	}, []string{"result"})
	r.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "runs_total",
		Help:      "Analysis runs, by result",
	}, []string{"result"})
	r.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of analysis runs",
		Buckets:   r.buckets,
	})
	return r
}

// Registry returns the registry the recorder writes to.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveDocument counts a document outcome.
func (r *Recorder) ObserveDocument(status string) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(status).Inc()
}

// ObserveEvents adds n produced events.
func (r *Recorder) ObserveEvents(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.events.Add(float64(n))
}

// ObserveAmbiguities adds n ambiguous matches.
func (r *Recorder) ObserveAmbiguities(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.ambiguities.Add(float64(n))
}

// ObserveCache counts a cache lookup.
func (r *Recorder) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRun records the result and duration of a run.
func (r *Recorder) ObserveRun(result string, d time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(result).Inc()
	r.runDuration.Observe(d.Seconds())
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics to path for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
