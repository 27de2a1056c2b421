package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/moodlens/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newJSONLogger(t *testing.T, mutate func(*Config)) (*Logger, *bytes.Buffer) {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Format = "json"
	cfg.Level = TraceLevel
	if mutate != nil {
		mutate(cfg)
	}
	var buf bytes.Buffer
	logger, err := NewLoggerTo(cfg, &buf)
	require.NoError(t, err)
	return logger, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLogger_ContextFields(t *testing.T) {
	logger, buf := newJSONLogger(t, nil)

	ctx := WithRunID(context.Background(), "run-123")
	ctx = WithSource(ctx, "moods.json")
	logger.Info(ctx, "analysis started", zap.Int("entries", 14))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "analysis started", lines[0]["msg"])
	assert.Equal(t, "run-123", lines[0]["run.id"])
	assert.Equal(t, "moods.json", lines[0]["run.source"])
	assert.Equal(t, float64(14), lines[0]["entries"])
	assert.Equal(t, "moodlens", lines[0]["service"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newJSONLogger(t, func(c *Config) { c.Level = zapcore.WarnLevel })
	ctx := context.Background()

	logger.Trace(ctx, "trace")
	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["msg"])
	assert.Equal(t, "error", lines[1]["msg"])
}

func TestLogger_RedactsNotes(t *testing.T) {
	logger, buf := newJSONLogger(t, nil)
	ctx := context.Background()

	logger.Debug(ctx, "embedding note", zap.String("notes", "argued with my sister"))
	logger.With(zap.String("note", "felt lonely")).Info(ctx, "child logger")
	logger.Info(ctx, "header", zap.String("auth", "Bearer abc.def"))
	logger.Info(ctx, "key", Secret("api_key_len", config.Secret("abcd")))

	out := buf.String()
	assert.NotContains(t, out, "argued with my sister")
	assert.NotContains(t, out, "felt lonely")
	assert.NotContains(t, out, "abc.def")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)
	assert.Equal(t, "[REDACTED]", lines[0]["notes"])
	assert.Equal(t, "[REDACTED]", lines[1]["note"])
	assert.Equal(t, "[REDACTED:pattern]", lines[2]["auth"])
	assert.Equal(t, "[REDACTED:4]", lines[3]["api_key_len"])
}

func TestLogger_RedactionDisabled(t *testing.T) {
	logger, buf := newJSONLogger(t, func(c *Config) { c.Redaction.Enabled = false })

	logger.Info(context.Background(), "raw", zap.String("notes", "visible"))
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_Sampling(t *testing.T) {
	logger, buf := newJSONLogger(t, func(c *Config) {
		c.Sampling.Enabled = true
		c.Sampling.Initial = 2
		c.Sampling.Thereafter = 0
	})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		logger.Info(ctx, "repeated")
	}
	for i := 0; i < 3; i++ {
		logger.Error(ctx, "failure")
	}

	var infos, errs int
	for _, l := range decodeLines(t, buf) {
		switch l["msg"] {
		case "repeated":
			infos++
		case "failure":
			errs++
		}
	}
	assert.Equal(t, 2, infos)
	assert.Equal(t, 3, errs, "errors are never sampled")
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(config.LoggingConfig{Level: "trace", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	_, err = FromAppConfig(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	l.Info(context.Background(), "goes nowhere")

	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	FromContext(ctx).Warn(ctx, "stored")
	tl.AssertLogged(t, zapcore.WarnLevel, "stored")
}

func TestTestLogger_AssertField(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithRunID(context.Background(), "abc")
	tl.Info(ctx, "clusters formed", zap.Int("k", 3))

	tl.AssertLogged(t, zapcore.InfoLevel, "clusters")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "clusters")
	tl.AssertField(t, "clusters formed", "run.id", "abc")
	tl.AssertField(t, "clusters formed", "k", int64(3))

	tl.Reset()
	assert.Empty(t, tl.All())
}
