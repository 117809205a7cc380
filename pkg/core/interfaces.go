package core

import (
	"io"
	"log/slog"
)

// Logger interface for raytracer logging.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogger creates a text logger writing to w at the given level
func NewLogger(w io.Writer, level slog.Level) Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NopLogger returns a logger that discards everything
func NopLogger() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
