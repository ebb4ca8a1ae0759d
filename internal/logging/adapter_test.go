package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlogAdapter(t *testing.T) {
	t.Run("nil falls back to default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		require.NotNil(t, adapter)
		assert.Same(t, slog.Default(), adapter.Logger())
	})

	t.Run("wraps the given logger", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		assert.Same(t, logger, NewSlogAdapter(logger).Logger())
	})
}

func TestSlogAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(New(&buf, true))

	adapter.Debug("debug message", "k", "d")
	adapter.Info("info message", KeyTool, "get_tasks")
	adapter.Warn("warn message")
	adapter.Error("error message", Status(StatusError))

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=\"debug message\" k=d")
	assert.Contains(t, out, "level=INFO msg=\"info message\" tool=get_tasks")
	assert.Contains(t, out, "level=WARN msg=\"warn message\"")
	assert.Contains(t, out, "level=ERROR msg=\"error message\" status=error")
}

func TestSlogAdapter_DebugFilteredByDefault(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(New(&buf, false))

	adapter.Debug("hidden")
	adapter.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSlogAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(New(&buf, false)).With(KeyWorkspace, "ws-1")

	adapter.Info("scoped")

	assert.Contains(t, buf.String(), "workspace=ws-1")
}

func TestDiscard(t *testing.T) {
	adapter := Discard()
	require.NotNil(t, adapter)
	assert.NotPanics(t, func() { adapter.Error("dropped", "key", "value") })
}

func TestDefaultLogger(t *testing.T) {
	var l Logger = DefaultLogger()
	assert.NotNil(t, l)
}
