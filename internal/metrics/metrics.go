// Package metrics records Prometheus metrics for an analysis run and writes
// them as a node_exporter textfile.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fyrsmithlabs/moodlens/internal/patterns"
)

// Stage names used for the stage duration histogram.
const (
	StageLoad     = "load"
	StageTemporal = "temporal"
	StageSemantic = "semantic"
	StageChart    = "chart"
	StageReport   = "report"
)

// Metrics holds the collectors for one run. Each instance owns its registry,
// so runs and tests never share state.
//
// Metrics:
//   - moodlens_entries - Number of mood entries analyzed
//   - moodlens_patterns_total{kind} - Patterns detected per detector
//   - moodlens_pattern_confidence{kind} - Histogram of pattern confidences
//   - moodlens_stage_duration_seconds{stage} - Duration of each pipeline stage
//   - moodlens_run_failures_total{stage} - Runs aborted per stage
//   - moodlens_last_run_timestamp_seconds - Completion time of the last run
type Metrics struct {
	registry *prometheus.Registry

	Entries           prometheus.Gauge
	PatternsTotal     *prometheus.CounterVec
	PatternConfidence *prometheus.HistogramVec
	StageDuration     *prometheus.HistogramVec
	FailuresTotal     *prometheus.CounterVec
	LastRun           prometheus.Gauge
}

// New creates and registers the run metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Entries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moodlens_entries",
			Help: "Number of mood entries analyzed",
		}),
		PatternsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodlens_patterns_total",
				Help: "Total number of patterns detected",
			},
			[]string{"kind"}, // "temporal" or "semantic"
		),
		PatternConfidence: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moodlens_pattern_confidence",
				Help:    "Confidence of detected patterns",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
			[]string{"kind"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moodlens_stage_duration_seconds",
				Help:    "Duration of analysis stages in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4m
			},
			[]string{"stage"},
		),
		FailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodlens_run_failures_total",
				Help: "Total number of runs aborted, by failing stage",
			},
			[]string{"stage"},
		),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moodlens_last_run_timestamp_seconds",
			Help: "Unix time the last successful run completed",
		}),
	}
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePatterns counts patterns and records their confidences by kind.
// Patterns without a kind are counted as "unknown".
func (m *Metrics) ObservePatterns(found []patterns.Pattern) {
	for _, p := range found {
		kind := string(p.Kind)
		if kind == "" {
			kind = "unknown"
		}
		m.PatternsTotal.WithLabelValues(kind).Inc()
		m.PatternConfidence.WithLabelValues(kind).Observe(p.Confidence)
	}
}

// ObserveStage records how long a stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Fail counts an aborted run.
func (m *Metrics) Fail(stage string) {
	m.FailuresTotal.WithLabelValues(stage).Inc()
}

// Complete marks the run finished at t.
func (m *Metrics) Complete(t time.Time) {
	m.LastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics in the Prometheus text format. The file
// is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
