// Package analysis runs the detectors over a mood log and assembles the
// report.
//
// Analyze merges temporal patterns with semantic patterns, attaches
// micro-actions to each one and renders the trend chart. Run wraps Analyze
// with loading the input and writing the report, and optionally a Prometheus
// textfile, to disk.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/moodlens/internal/actions"
	"github.com/fyrsmithlabs/moodlens/internal/chart"
	"github.com/fyrsmithlabs/moodlens/internal/logging"
	"github.com/fyrsmithlabs/moodlens/internal/metrics"
	"github.com/fyrsmithlabs/moodlens/internal/mood"
	"github.com/fyrsmithlabs/moodlens/internal/patterns"
	"github.com/fyrsmithlabs/moodlens/internal/report"
)

// InstrumentationName is the OpenTelemetry scope for analysis spans.
const InstrumentationName = "github.com/fyrsmithlabs/moodlens/internal/analysis"

// DefaultReportFile is the report name written by Run.
const DefaultReportFile = "detected_patterns.json"

// Renderer draws the chart for a run and returns the path it wrote.
type Renderer interface {
	Render(ctx context.Context, entries []mood.Entry, found []patterns.Pattern) (string, error)
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTemporalDetector replaces the default temporal detector.
func WithTemporalDetector(d *patterns.TemporalDetector) Option {
	return func(a *Analyzer) {
		if d != nil {
			a.temporal = d
		}
	}
}

// WithActions sets the micro-action generator.
func WithActions(g *actions.Generator) Option {
	return func(a *Analyzer) {
		if g != nil {
			a.actions = g
		}
	}
}

// WithRenderer sets the chart renderer. Without one, reports carry no plot.
func WithRenderer(r Renderer) Option {
	return func(a *Analyzer) {
		a.renderer = r
	}
}

// WithMetrics records run metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithMetricsFile makes Run write the metrics as a Prometheus textfile. A
// relative path is resolved against the output directory.
func WithMetricsFile(path string) Option {
	return func(a *Analyzer) {
		a.metricsFile = path
	}
}

// WithReportFile sets the report file name used by Run.
func WithReportFile(name string) Option {
	return func(a *Analyzer) {
		if name != "" {
			a.reportFile = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// Analyzer ties the detectors, the micro-action generator and the renderer
// together.
type Analyzer struct {
	temporal    *patterns.TemporalDetector
	semantic    *patterns.SemanticDetector
	actions     *actions.Generator
	renderer    Renderer
	metrics     *metrics.Metrics
	metricsFile string
	reportFile  string
	logger      *logging.Logger
}

// New creates an Analyzer around the semantic detector.
func New(semantic *patterns.SemanticDetector, opts ...Option) (*Analyzer, error) {
	if semantic == nil {
		return nil, errors.New("semantic detector cannot be nil")
	}
	a := &Analyzer{
		temporal:   patterns.NewTemporalDetector(),
		semantic:   semantic,
		actions:    actions.NewGenerator(nil),
		reportFile: DefaultReportFile,
		logger:     logging.FromContext(context.Background()),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = metrics.New()
	}
	return a, nil
}

// Metrics returns the metrics the analyzer records into.
func (a *Analyzer) Metrics() *metrics.Metrics {
	return a.metrics
}

// Analyze detects patterns in entries, which must be sorted by date, and
// returns the report. Temporal patterns come first, then semantic ones in
// cluster order. An empty log yields an empty report with no plot.
func (a *Analyzer) Analyze(ctx context.Context, entries []mood.Entry) (*report.Report, error) {
	ctx, span := tracer().Start(ctx, "analysis.analyze",
		trace.WithAttributes(attribute.Int("mood.entries", len(entries))))
	defer span.End()

	a.metrics.Entries.Set(float64(len(entries)))

	temporal := a.detectTemporal(ctx, entries)

	semantic, err := a.detectSemantic(ctx, entries)
	if err != nil {
		a.metrics.Fail(metrics.StageSemantic)
		recordError(span, err, "semantic detection failed")
		return nil, err
	}

	found := make([]patterns.Pattern, 0, len(temporal)+len(semantic))
	found = append(found, temporal...)
	found = append(found, semantic...)
	for i := range found {
		found[i].MicroActions = a.actions.For(found[i].Description)
	}
	a.metrics.ObservePatterns(found)

	plot, err := a.render(ctx, entries, found)
	if err != nil {
		a.metrics.Fail(metrics.StageChart)
		recordError(span, err, "chart rendering failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("patterns.count", len(found)))
	a.logger.Info(ctx, "analysis complete",
		zap.Int("entries", len(entries)),
		zap.Int("temporal_patterns", len(temporal)),
		zap.Int("semantic_patterns", len(semantic)),
		zap.String("plot", plot),
	)
	return report.New(found, plot), nil
}

// Result is the outcome of Run.
type Result struct {
	Entries    []mood.Entry
	Report     *report.Report
	ReportPath string
}

// Run loads inputPath, analyzes it and writes the report into outputDir.
// No report is written when any step fails.
func (a *Analyzer) Run(ctx context.Context, inputPath, outputDir string) (*Result, error) {
	ctx = logging.WithSource(ctx, inputPath)
	ctx, span := tracer().Start(ctx, "analysis.run",
		trace.WithAttributes(attribute.String("input.path", inputPath)))
	defer span.End()

	start := time.Now()
	entries, err := mood.Load(ctx, inputPath)
	if err != nil {
		a.metrics.Fail(metrics.StageLoad)
		recordError(span, err, "loading input failed")
		return nil, err
	}
	a.metrics.ObserveStage(metrics.StageLoad, start)
	a.logger.Debug(ctx, "entries loaded", zap.Int("entries", len(entries)))

	rep, err := a.Analyze(ctx, entries)
	if err != nil {
		recordError(span, err, "analysis failed")
		return nil, err
	}

	start = time.Now()
	reportPath := filepath.Join(outputDir, a.reportFile)
	if err := rep.WriteFile(reportPath); err != nil {
		a.metrics.Fail(metrics.StageReport)
		recordError(span, err, "writing report failed")
		return nil, err
	}
	a.metrics.ObserveStage(metrics.StageReport, start)
	a.metrics.Complete(time.Now())

	if a.metricsFile != "" {
		path := a.metricsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(outputDir, path)
		}
		if err := a.metrics.WriteTextfile(path); err != nil {
			recordError(span, err, "writing metrics failed")
			return nil, err
		}
	}

	a.logger.Info(ctx, "report written",
		zap.String("path", reportPath),
		zap.Int("patterns", len(rep.Patterns)),
	)
	return &Result{Entries: entries, Report: rep, ReportPath: reportPath}, nil
}

func (a *Analyzer) detectTemporal(ctx context.Context, entries []mood.Entry) []patterns.Pattern {
	_, span := tracer().Start(ctx, "patterns.temporal")
	defer span.End()
	defer a.metrics.ObserveStage(metrics.StageTemporal, time.Now())

	found := a.temporal.Detect(entries)
	span.SetAttributes(attribute.Int("patterns.count", len(found)))
	return found
}

func (a *Analyzer) detectSemantic(ctx context.Context, entries []mood.Entry) ([]patterns.Pattern, error) {
	ctx, span := tracer().Start(ctx, "patterns.semantic")
	defer span.End()
	defer a.metrics.ObserveStage(metrics.StageSemantic, time.Now())

	found, err := a.semantic.Detect(ctx, entries)
	if err != nil {
		recordError(span, err, "embedding failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("patterns.count", len(found)))
	return found, nil
}

// render returns "" without error when there is no renderer or nothing to plot.
func (a *Analyzer) render(ctx context.Context, entries []mood.Entry, found []patterns.Pattern) (string, error) {
	if a.renderer == nil {
		return "", nil
	}
	ctx, span := tracer().Start(ctx, "chart.render")
	defer span.End()
	defer a.metrics.ObserveStage(metrics.StageChart, time.Now())

	plot, err := a.renderer.Render(ctx, entries, found)
	if errors.Is(err, chart.ErrNoData) {
		a.logger.Warn(ctx, "no entries to chart")
		return "", nil
	}
	if err != nil {
		recordError(span, err, "render failed")
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	span.SetAttributes(attribute.String("chart.path", plot))
	return plot, nil
}

func tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

func recordError(span trace.Span, err error, description string) {
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, description)
	}
}
