package hugealloc

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with hugealloc-specific helpers for consistent
// field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil, a
// text handler to stderr at info level is used.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// LogAlloc logs a mapping-path allocation.
func (l *Logger) LogAlloc(size int, huge bool, err error) {
	if err != nil {
		l.Error("segment alloc failed",
			"size", size,
			"error", err,
		)
		return
	}

	l.Debug("segment allocated",
		"size", size,
		"huge", huge,
	)
}

// LogResizeFallback logs an in-place resize that fell back to
// allocate-copy-unmap.
func (l *Logger) LogResizeFallback(oldSize, newSize int) {
	l.Debug("in-place resize failed, copied to new segment",
		"old_size", oldSize,
		"new_size", newSize,
	)
}

// LogThreshold logs a threshold change.
func (l *Logger) LogThreshold(bytes int) {
	if bytes == 0 {
		l.Info("huge page interception disabled")
		return
	}

	l.Info("threshold updated", "threshold", bytes)
}
