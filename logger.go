package vecdist

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/vecdist/distance"
)

// Logger wraps slog.Logger with vecdist-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithName adds the vector set name to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithMetric adds the metric and element type to the logger.
func (l *Logger) WithMetric(m distance.Metric, t distance.ElementType) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", m.String(), "element_type", t.String()),
	}
}

// LogLoad logs the outcome of reading a vector set.
func (l *Logger) LogLoad(ctx context.Context, name string, rows, cols int, compression string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "vector set loaded",
		"name", name,
		"rows", rows,
		"cols", cols,
		"compression", compression,
	)
}

// LogQuantizerInstalled logs that a codebook became the process-wide quantizer.
func (l *Logger) LogQuantizerInstalled(ctx context.Context, numSubvectors, ksPerSubvector, dimPerSubvector int) {
	l.InfoContext(ctx, "quantizer installed",
		"subvectors", numSubvectors,
		"centroids", ksPerSubvector,
		"subvector_dim", dimPerSubvector,
	)
}

// LogPairwise logs a pairwise distance computation.
func (l *Logger) LogPairwise(ctx context.Context, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "pairwise failed",
			"rows", rows,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "pairwise completed",
		"rows", rows,
		"pairs", rows*(rows+1)/2,
	)
}
