// Package config provides configuration loading for moodlens.
//
// Configuration is layered: hardcoded defaults, then an optional YAML file,
// then MOODLENS_* environment variables. See LoadWithFile.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete moodlens configuration.
type Config struct {
	Input       InputConfig       `koanf:"input"`
	Output      OutputConfig      `koanf:"output"`
	Analysis    AnalysisConfig    `koanf:"analysis"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	Suggestions SuggestionsConfig `koanf:"suggestions"`
	Logging     LoggingConfig     `koanf:"logging"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
}

// InputConfig locates the mood log.
type InputConfig struct {
	Path string `koanf:"path"` // .json, .csv, .db or .sqlite
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir         string `koanf:"dir"`
	ReportFile  string `koanf:"report_file"`
	ChartFile   string `koanf:"chart_file"`
	MetricsFile string `koanf:"metrics_file"` // empty disables the Prometheus textfile
}

// AnalysisConfig tunes the pattern detectors.
type AnalysisConfig struct {
	MaxClusters        int     `koanf:"max_clusters"`
	Seed               int64   `koanf:"seed"`
	DeviationThreshold float64 `koanf:"deviation_threshold"`
	RollingWindow      int     `koanf:"rolling_window"`
}

// EmbeddingsConfig selects the sentence-embedding backend.
type EmbeddingsConfig struct {
	Provider string   `koanf:"provider"` // "fastembed" or "tei"
	Model    string   `koanf:"model"`
	BaseURL  string   `koanf:"base_url"`
	CacheDir string   `koanf:"cache_dir"`
	APIKey   Secret   `koanf:"api_key"`
	Timeout  Duration `koanf:"timeout"`
}

// SuggestionsConfig controls micro-action ordering.
type SuggestionsConfig struct {
	Shuffle bool  `koanf:"shuffle"`
	Seed    int64 `koanf:"seed"`
}

// LoggingConfig is the user-facing subset of logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig controls optional OTLP export of run traces and metrics.
type TelemetryConfig struct {
	Enabled         bool                   `koanf:"enabled"`
	Endpoint        string                 `koanf:"endpoint"`
	Protocol        string                 `koanf:"protocol"` // "grpc" or "http/protobuf"
	Insecure        bool                   `koanf:"insecure"` // plaintext; only allowed for local endpoints
	ServiceName     string                 `koanf:"service_name"`
	SampleRate      float64                `koanf:"sample_rate"`
	Metrics         TelemetryMetricsConfig `koanf:"metrics"`
	ShutdownTimeout Duration               `koanf:"shutdown_timeout"`
}

// TelemetryMetricsConfig controls OTLP metric export.
type TelemetryMetricsConfig struct {
	Enabled        bool     `koanf:"enabled"`
	ExportInterval Duration `koanf:"export_interval"`
}

// Defaults.
const (
	DefaultReportFile         = "detected_patterns.json"
	DefaultChartFile          = "mood_trend.png"
	DefaultOutputDir          = "outputs"
	DefaultMaxClusters        = 3
	DefaultSeed               = 42
	DefaultDeviationThreshold = 0.5
	DefaultRollingWindow      = 3
	DefaultEmbeddingModel     = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultEmbeddingTimeout   = 2 * time.Minute
)

// Default returns a fully populated configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Telemetry.Insecure = true
	cfg.Telemetry.SampleRate = 1.0
	cfg.Telemetry.Metrics.Enabled = true
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills zero-valued fields. Booleans keep their zero value.
func applyDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if cfg.Output.ReportFile == "" {
		cfg.Output.ReportFile = DefaultReportFile
	}
	if cfg.Output.ChartFile == "" {
		cfg.Output.ChartFile = DefaultChartFile
	}

	if cfg.Analysis.MaxClusters == 0 {
		cfg.Analysis.MaxClusters = DefaultMaxClusters
	}
	if cfg.Analysis.Seed == 0 {
		cfg.Analysis.Seed = DefaultSeed
	}
	if cfg.Analysis.DeviationThreshold == 0 {
		cfg.Analysis.DeviationThreshold = DefaultDeviationThreshold
	}
	if cfg.Analysis.RollingWindow == 0 {
		cfg.Analysis.RollingWindow = DefaultRollingWindow
	}

	if cfg.Embeddings.Provider == "" {
		cfg.Embeddings.Provider = "fastembed"
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = DefaultEmbeddingModel
	}
	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = "http://localhost:8080"
	}
	if cfg.Embeddings.Timeout == 0 {
		cfg.Embeddings.Timeout = Duration(DefaultEmbeddingTimeout)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "moodlens"
	}
	if cfg.Telemetry.Metrics.ExportInterval == 0 {
		cfg.Telemetry.Metrics.ExportInterval = Duration(15 * time.Second)
	}
	if cfg.Telemetry.ShutdownTimeout == 0 {
		cfg.Telemetry.ShutdownTimeout = Duration(5 * time.Second)
	}
}

// Validate validates the configuration.
//
// Returns an error if:
//   - max_clusters is below 1
//   - deviation_threshold is negative
//   - rolling_window is below 1
//   - the embedding provider is unknown
//   - the logging format is not json or console
//   - the telemetry protocol or sample rate is invalid
func (c *Config) Validate() error {
	if c.Analysis.MaxClusters < 1 {
		return fmt.Errorf("invalid analysis.max_clusters: %d (must be >= 1)", c.Analysis.MaxClusters)
	}
	if c.Analysis.DeviationThreshold < 0 {
		return fmt.Errorf("invalid analysis.deviation_threshold: %v (must be >= 0)", c.Analysis.DeviationThreshold)
	}
	if c.Analysis.RollingWindow < 1 {
		return fmt.Errorf("invalid analysis.rolling_window: %d (must be >= 1)", c.Analysis.RollingWindow)
	}

	switch c.Embeddings.Provider {
	case "fastembed":
	case "tei":
		if c.Embeddings.BaseURL == "" {
			return errors.New("embeddings.base_url required for tei provider")
		}
	default:
		return fmt.Errorf("unknown embeddings.provider %q (expected fastembed or tei)", c.Embeddings.Provider)
	}

	if c.Output.Dir == "" {
		return errors.New("output.dir cannot be empty")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Telemetry.Protocol != "grpc" && c.Telemetry.Protocol != "http/protobuf" {
		return fmt.Errorf("telemetry.protocol must be 'grpc' or 'http/protobuf', got %q", c.Telemetry.Protocol)
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %v", c.Telemetry.SampleRate)
	}

	return nil
}
