package sparsebayes

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sparsebayes-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogFit logs the outcome of a fit.
func (l *Logger) LogFit(ctx context.Context, samples, basis, iterations, retained int, converged bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"samples", samples,
			"basis_functions", basis,
			"iterations", iterations,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "fit completed",
			"samples", samples,
			"basis_functions", basis,
			"iterations", iterations,
			"relevance_vectors", retained,
			"converged", converged,
		)
	}
}

// LogPrune logs a pruning pass that removed basis functions.
func (l *Logger) LogPrune(ctx context.Context, iteration, removed, retained int) {
	l.DebugContext(ctx, "basis functions pruned",
		"iteration", iteration,
		"removed", removed,
		"retained", retained,
	)
}

// LogPredict logs a prediction.
func (l *Logger) LogPredict(ctx context.Context, samples int, variance bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "predict failed",
			"samples", samples,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "predict completed",
			"samples", samples,
			"variance", variance,
		)
	}
}

// LogSnapshot logs a model snapshot save.
func (l *Logger) LogSnapshot(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
		)
	}
}

// LogLoad logs a model snapshot load.
func (l *Logger) LogLoad(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"name", name,
		)
	}
}
