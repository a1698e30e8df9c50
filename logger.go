package mdadm

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with controller-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithDisk adds a disk field to the logger.
func (l *Logger) WithDisk(disk int) *Logger {
	return &Logger{
		Logger: l.Logger.With("disk", disk),
	}
}

// LogMount logs a mount operation.
func (l *Logger) LogMount(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mount failed", "error", err)
	} else {
		l.InfoContext(ctx, "mounted")
	}
}

// LogUnmount logs an unmount operation.
func (l *Logger) LogUnmount(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "unmount failed", "error", err)
	} else {
		l.InfoContext(ctx, "unmounted")
	}
}

// LogRead logs a read transfer.
func (l *Logger) LogRead(ctx context.Context, addr, length uint32, err error) {
	l.logTransfer(ctx, "read", addr, length, err)
}

// LogWrite logs a write transfer.
func (l *Logger) LogWrite(ctx context.Context, addr, length uint32, err error) {
	l.logTransfer(ctx, "write", addr, length, err)
}

func (l *Logger) logTransfer(ctx context.Context, op string, addr, length uint32, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"addr", addr,
			"length", length,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, op+" completed",
			"addr", addr,
			"length", length,
		)
	}
}
