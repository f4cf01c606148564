package converter

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome classifies one processed path.
type Outcome string

// Outcomes of a single file.
const (
	OutcomeSuccess  Outcome = "success"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeNotFound Outcome = "not_found"
	OutcomeFailed   Outcome = "failed"
)

// Recorder observes per-file outcomes.
type Recorder interface {
	Record(outcome Outcome, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Record(Outcome, time.Duration) {}

// Metrics is a [Recorder] backed by Prometheus collectors.
//
// Metrics:
//   - propconv_files_total: processed files by outcome
//   - propconv_file_duration_seconds: per-file processing time by outcome
type Metrics struct {
	registry *prometheus.Registry
	files    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with registry. A nil
// registry gets a fresh one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "propconv",
				Name:      "files_total",
				Help:      "Number of processed files by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "propconv",
				Name:      "file_duration_seconds",
				Help:      "Time spent converting a single file",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(m.files, m.duration)

	return m
}

// Record implements [Recorder].
func (m *Metrics) Record(outcome Outcome, elapsed time.Duration) {
	m.files.WithLabelValues(string(outcome)).Inc()
	m.duration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}

// Files returns the counter for outcome.
func (m *Metrics) Files(outcome Outcome) prometheus.Counter {
	return m.files.WithLabelValues(string(outcome))
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	err := prometheus.WriteToTextfile(path, m.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
