package quantize

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with quantize-specific context.
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

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogRun logs a finished clustering run. The cluster count and point count
// are expected on l via WithK and WithCount.
func (l *Logger) LogRun(ctx context.Context, res *Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cluster failed", "error", err)
		return
	}

	l.InfoContext(ctx, "cluster completed",
		"iterations", res.Iterations,
		"converged", res.Converged,
		"cost", res.Cost,
		"duration", res.Duration,
	)
	if res.EmptyClusterEvents > 0 {
		l.DebugContext(ctx, "empty clusters absorbed",
			"events", res.EmptyClusterEvents,
		)
	}
}

// LogIteration logs one refinement iteration at debug level.
func (l *Logger) LogIteration(ctx context.Context, iteration int, displacement float64, emptyClusters int) {
	l.DebugContext(ctx, "iteration",
		"iteration", iteration,
		"displacement", displacement,
		"empty_clusters", emptyClusters,
	)
}

// LogSweep logs a finished sweep over candidate k values.
func (l *Logger) LogSweep(ctx context.Context, candidates int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sweep failed",
			"candidates", candidates,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "sweep completed",
		"candidates", candidates,
		"duration", duration,
	)
}
