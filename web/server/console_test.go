package server

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(messageChan, slog.LevelInfo, nil)

	logger.Info("pass complete", "pass", 2, "samples", 9)

	select {
	case msg := <-messageChan:
		assert.Equal(t, "pass complete pass=2 samples=9", msg.Message)
		assert.Equal(t, "info", msg.Level)
		assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for console message")
	}
}

func TestWebLogger_LevelFilter(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(messageChan, slog.LevelInfo, nil)

	logger.Debug("band complete", "band", 1)
	logger.Warn("slow pass")

	require.Len(t, messageChan, 1)
	msg := <-messageChan
	assert.Equal(t, "slow pass", msg.Message)
	assert.Equal(t, "warn", msg.Level)
}

func TestWebLogger_WithAttrs(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(messageChan, slog.LevelInfo, nil).With("render", "render-1")

	logger.Info("starting render", "scene", "cornell-box")

	msg := <-messageChan
	assert.Equal(t, "starting render render=render-1 scene=cornell-box", msg.Message)
}

func TestWebLogger_ChannelFull(t *testing.T) {
	// A full channel must not block logging
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger(messageChan, slog.LevelInfo, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			logger.Info("message", "i", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("logger blocked on a full channel")
	}
	assert.Len(t, messageChan, 1)
	assert.Equal(t, "message i=0", (<-messageChan).Message)
}

func TestWebLogger_ForwardsToServerLog(t *testing.T) {
	var serverLog bytes.Buffer
	next := slog.NewTextHandler(&serverLog, &slog.HandlerOptions{Level: slog.LevelWarn})
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(messageChan, slog.LevelInfo, next)

	logger.Info("only on the console")
	logger.Error("on both", "pass", 3)

	assert.Len(t, messageChan, 2)
	assert.NotContains(t, serverLog.String(), "only on the console")
	assert.Contains(t, serverLog.String(), "on both")
	assert.Contains(t, serverLog.String(), "pass=3")
}
