// Package metrics records formatting calls in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cursorkeep"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Recorder collects per-strategy formatting metrics. A nil *Recorder
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	calls     *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	errors    *prometheus.CounterVec
	editCost  *prometheus.HistogramVec
	unchanged *prometheus.CounterVec
}

// Config configures the recorder.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for the latency histogram (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns buckets sized for per-keystroke formatting.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}
}

// NewRecorder creates a recorder and registers its collectors.
func NewRecorder(cfg Config) *Recorder {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	r := &Recorder{registry: registry}

	r.calls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "format",
			Name:      "calls_total",
			Help:      "Total number of formatting calls",
		},
		[]string{"strategy", "operation", "status"},
	)

	r.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "format",
			Name:      "latency_seconds",
			Help:      "Formatting latency in seconds, cursor placement included",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"strategy", "operation"},
	)

	r.errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "format",
			Name:      "errors_total",
			Help:      "Total number of failed formatting calls",
		},
		[]string{"strategy", "error_type"},
	)

	r.editCost = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "edit_cost",
			Help:      "Levenshtein distance between a line and its formatted replacement",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		},
		[]string{"operation"},
	)

	r.unchanged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "unchanged_total",
			Help:      "Formatting calls that left line and cursor as they were",
		},
		[]string{"operation"},
	)

	registry.MustRegister(r.calls, r.latency, r.errors, r.editCost, r.unchanged)
	return r
}

// RecordFormat records one formatting call. errorType is ignored on success.
func (r *Recorder) RecordFormat(strategy, operation string, latency time.Duration, errorType string, ok bool) {
	if r == nil {
		return
	}
	status := StatusSuccess
	if !ok {
		status = StatusError
		r.errors.WithLabelValues(strategy, errorType).Inc()
	}
	r.calls.WithLabelValues(strategy, operation, status).Inc()
	r.latency.WithLabelValues(strategy, operation).Observe(latency.Seconds())
}

// RecordEdit records the cost of an edit written back to the editor.
func (r *Recorder) RecordEdit(operation string, cost int) {
	if r == nil {
		return
	}
	r.editCost.WithLabelValues(operation).Observe(float64(cost))
}

// RecordUnchanged records a call whose result matched the line as typed.
func (r *Recorder) RecordUnchanged(operation string) {
	if r == nil {
		return
	}
	r.unchanged.WithLabelValues(operation).Inc()
}

// Handler returns the HTTP handler for the metrics endpoint.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
