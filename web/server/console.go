package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// consoleHandler is a slog.Handler that forwards records to a render's console channel.
// Records are also passed to next, so they still reach the server log.
type consoleHandler struct {
	consoleChan chan<- ConsoleMessage
	level       slog.Leveler
	attrs       []slog.Attr
	next        slog.Handler
}

// NewWebLogger creates a logger whose records stream to consoleChan without blocking.
// Messages are dropped while the channel is full.
func NewWebLogger(consoleChan chan<- ConsoleMessage, level slog.Leveler, next slog.Handler) *slog.Logger {
	return slog.New(&consoleHandler{
		consoleChan: consoleChan,
		level:       level,
		next:        next,
	})
}

func (h *consoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() || (h.next != nil && h.next.Enabled(ctx, level))
}

func (h *consoleHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.next != nil && h.next.Enabled(ctx, record.Level) {
		if err := h.next.Handle(ctx, record); err != nil {
			return err
		}
	}
	if record.Level < h.level.Level() {
		return nil
	}

	var b strings.Builder
	b.WriteString(record.Message)
	writeAttr := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	record.Attrs(writeAttr)

	select {
	case h.consoleChan <- ConsoleMessage{
		Message:   b.String(),
		Timestamp: record.Time,
		Level:     strings.ToLower(record.Level.String()),
	}:
	default:
		// Channel full, skip (don't block the render)
	}
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}
