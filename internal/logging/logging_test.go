package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "default", input: "", want: slog.LevelInfo},
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "upper case with spaces", input: "  DEBUG ", want: slog.LevelDebug},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "warn alias", input: "warning", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "invalid", input: "nope", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "", slog.LevelInfo).With("component", "transform")

	log.Debug("hidden")
	log.Info("converted", "lines", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=converted")
	assert.Contains(t, out, "component=transform")
	assert.Contains(t, out, "lines=3")
}

func TestNewWithWriter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter(&buf, "JSON", slog.LevelDebug).Debug("rule applied", "rule", "Bold text")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "rule applied", rec["msg"])
	assert.Equal(t, "Bold text", rec["rule"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestNewWithWriter_LevelVar(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelError)
	log := NewWithWriter(&buf, "text", lvl)

	log.Warn("first")
	assert.Empty(t, buf.String())

	lvl.Set(slog.LevelWarn)
	log.Warn("second")
	assert.Contains(t, buf.String(), "second")
}

// Not parallel: mutates the shared level.
func TestSetLevel(t *testing.T) {
	log := New("test")
	require.NotNil(t, log)
	assert.Same(t, New(""), New(""))

	prev := Level()
	t.Cleanup(func() { SetLevel(prev) })

	SetLevel(slog.LevelDebug)
	assert.Equal(t, slog.LevelDebug, Level())
	assert.True(t, log.Enabled(t.Context(), slog.LevelDebug))

	SetLevel(slog.LevelError)
	assert.False(t, log.Enabled(t.Context(), slog.LevelWarn))
}
