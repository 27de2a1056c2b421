package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/moodlens/internal/actions"
	"github.com/fyrsmithlabs/moodlens/internal/analysis"
	"github.com/fyrsmithlabs/moodlens/internal/chart"
	"github.com/fyrsmithlabs/moodlens/internal/config"
	"github.com/fyrsmithlabs/moodlens/internal/embeddings"
	"github.com/fyrsmithlabs/moodlens/internal/logging"
	"github.com/fyrsmithlabs/moodlens/internal/patterns"
	"github.com/fyrsmithlabs/moodlens/internal/telemetry"
)

// newProvider builds the embedding backend. Tests replace it.
var newProvider = embeddings.NewProvider

type analyzeOptions struct {
	configPath string
	outputDir  string
	quiet      bool
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze [input]",
		Short: "Detect patterns in a mood log and write the report",
		Long: `Analyze a mood log and write detected_patterns.json and mood_trend.png.

The input is picked by extension: .json, .csv, or .db/.sqlite with a
mood_entries table. Without an argument, input.path from the config is used.

Examples:
  # Analyze a JSON log into ./outputs
  moodlens analyze mood_log.json

  # Use a remote TEI embedding server and a custom output directory
  MOODLENS_EMBEDDINGS_PROVIDER=tei moodlens analyze --output reports mood.csv

  # Write files only, no terminal summary
  moodlens analyze --quiet --config moodlens.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Output directory (overrides output.dir)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the terminal summary")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts analyzeOptions) error {
	cfg, err := config.LoadWithFile(opts.configPath)
	if err != nil {
		return err
	}

	input := cfg.Input.Path
	if len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		return errors.New("no input file: pass one as an argument or set input.path")
	}
	outDir := cfg.Output.Dir
	if opts.outputDir != "" {
		outDir = opts.outputDir
	}

	logCfg, err := logging.FromAppConfig(cfg.Logging)
	if err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	logger, err := logging.NewLoggerTo(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := logging.WithRunID(cmd.Context(), uuid.NewString())
	ctx = logging.WithLogger(ctx, logger)

	tel, err := telemetry.New(ctx, cfg.Telemetry, version, logger.Underlying())
	if err != nil {
		return err
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
		}
	}()

	provider, err := newProvider(embeddings.ProviderConfig{
		Provider: cfg.Embeddings.Provider,
		Model:    cfg.Embeddings.Model,
		BaseURL:  cfg.Embeddings.BaseURL,
		APIKey:   cfg.Embeddings.APIKey.Value(),
		CacheDir: cfg.Embeddings.CacheDir,
		Logger:   logger.Underlying(),
	})
	if err != nil {
		logger.Error(ctx, "failed to create embedding provider", zap.Error(err))
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	defer provider.Close()

	analyzer, err := buildAnalyzer(cfg, outDir, provider, logger)
	if err != nil {
		return err
	}

	logger.Info(ctx, "starting analysis",
		zap.String("input", input),
		zap.String("output_dir", outDir),
		zap.String("embeddings.provider", cfg.Embeddings.Provider),
	)
	res, err := analyzer.Run(ctx, input, outDir)
	if err != nil {
		logger.Error(ctx, "analysis failed", zap.Error(err))
		return err
	}

	if opts.quiet {
		return nil
	}
	if err := chart.Preview(cmd.OutOrStdout(), res.Entries, res.Report.Patterns, res.Report.Plot); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", res.ReportPath)
	return err
}

func buildAnalyzer(cfg *config.Config, outDir string, embedder patterns.Embedder, logger *logging.Logger) (*analysis.Analyzer, error) {
	semantic, err := patterns.NewSemanticDetector(
		timeoutEmbedder{next: embedder, timeout: cfg.Embeddings.Timeout.Duration()},
		patterns.WithMaxClusters(cfg.Analysis.MaxClusters),
		patterns.WithSeed(cfg.Analysis.Seed),
		patterns.WithLogger(logger.Underlying()),
	)
	if err != nil {
		return nil, err
	}

	var selector actions.Selector
	if cfg.Suggestions.Shuffle {
		selector = actions.NewShuffleSelector(cfg.Suggestions.Seed)
	}

	return analysis.New(semantic,
		analysis.WithTemporalDetector(&patterns.TemporalDetector{Threshold: cfg.Analysis.DeviationThreshold}),
		analysis.WithActions(actions.NewGenerator(selector)),
		analysis.WithRenderer(chart.NewPNGRenderer(
			filepath.Join(outDir, cfg.Output.ChartFile),
			cfg.Analysis.RollingWindow,
			logger.Underlying(),
		)),
		analysis.WithReportFile(cfg.Output.ReportFile),
		analysis.WithMetricsFile(cfg.Output.MetricsFile),
		analysis.WithLogger(logger),
	)
}

// timeoutEmbedder bounds each embedding call.
type timeoutEmbedder struct {
	next    patterns.Embedder
	timeout time.Duration
}

func (e timeoutEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.next.EmbedDocuments(ctx, texts)
}
