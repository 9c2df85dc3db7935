package pvec

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pvec-specific context.
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

// WithName adds the vector name field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}

// WithVersion adds a snapshot version field to the logger.
func (l *Logger) WithVersion(version uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("version", version),
	}
}

// LogSave logs a snapshot save.
func (l *Logger) LogSave(ctx context.Context, name string, version uint64, size, count, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot saved",
		"name", name,
		"version", version,
		"size", size,
		"count", count,
		"bytes", bytes,
	)
}

// LogLoad logs a snapshot load.
func (l *Logger) LogLoad(ctx context.Context, name string, version uint64, cached bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"version", version,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "snapshot loaded",
		"name", name,
		"version", version,
		"cached", cached,
	)
}

// LogDelete logs the removal of a vector's snapshots.
func (l *Logger) LogDelete(ctx context.Context, name string, versions int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshots deleted",
		"name", name,
		"versions", versions,
	)
}
