// Package logging provides structured logging for moodlens on top of Zap.
//
// # Overview
//
// Logger wraps *zap.Logger with context-aware methods. Correlation fields
// stored on the context (run ID, input source) are attached to every entry:
//
//	ctx = logging.WithRunID(ctx, uuid.NewString())
//	logger.Info(ctx, "analysis started", zap.Int("entries", n))
//
// Library packages (patterns, analysis, embeddings) accept a plain *zap.Logger;
// pass Logger.Underlying() to them.
//
// # Output
//
// Logs go to stderr so stdout stays free for the terminal preview. Format is
// "console" for humans or "json" for machines.
//
// # Redaction
//
// Mood notes are private. The redacting encoder replaces the values of
// configured keys ("notes", "note", "api_key" by default) with [REDACTED]
// before they reach the sink.
//
// # Sampling
//
// Below-error entries can be sampled per tick. Error and above are never
// sampled.
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	doSomething(tl.Underlying())
//	tl.AssertLogged(t, zapcore.InfoLevel, "clusters formed")
package logging
