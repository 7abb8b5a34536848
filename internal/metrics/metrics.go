// Package metrics provides Prometheus metrics for the contribution pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation names recorded by the domain systems.
const (
	OpGeolocation = "geolocation"
	OpSuggestion  = "suggestion"
	OpUpload      = "upload"
	OpSubmission  = "submission"
	OpReview      = "review"
)

// Recorder is the narrow surface domain systems record through.
type Recorder interface {
	// RecordOperation counts one outcome of an operation, e.g. ("suggestion", "timeout").
	RecordOperation(operation, status string)
	// RecordDuration observes how long an operation took, in seconds.
	RecordDuration(operation string, seconds float64)
}

// Nop discards everything. It is the default when no collector is wired.
type Nop struct{}

func (Nop) RecordOperation(string, string) {}
func (Nop) RecordDuration(string, float64) {}

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	Operations *prometheus.CounterVec
	Durations  *prometheus.HistogramVec
	Drafts     prometheus.Gauge
	registry   *prometheus.Registry
}

// New creates the collectors and registers them with registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register shoreline metrics: %w", err)
	}
	return m, nil
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) initMetrics() {
	m.Operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shoreline_operations_total",
		Help: "Total number of pipeline operations by outcome.",
	}, []string{"operation", "status"})

	m.Durations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shoreline_operation_duration_seconds",
		Help:    "Duration of pipeline operations in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"operation"})

	m.Drafts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shoreline_drafts_active",
		Help: "Number of contribution drafts currently held in memory.",
	})
}

func (m *Metrics) RecordOperation(operation, status string) {
	m.Operations.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) RecordDuration(operation string, seconds float64) {
	m.Durations.WithLabelValues(operation).Observe(seconds)
}

// SetDrafts updates the number of live drafts.
func (m *Metrics) SetDrafts(n int) {
	m.Drafts.Set(float64(n))
}

// Collect implements the prometheus.Collector interface.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.Operations.Collect(ch)
	m.Durations.Collect(ch)
	ch <- m.Drafts
}

// Describe implements the prometheus.Collector interface.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.Operations.Describe(ch)
	m.Durations.Describe(ch)
	ch <- m.Drafts.Desc()
}
