// Package logging provides the shared structured logger for mdcommand.
//
// All components derive their logger from one base handler so output
// format and level stay consistent. The level is read once from
// MDCOMMAND_LOG_LEVEL (debug, info, warn, error) and can be raised or
// lowered later with SetLevel, which the CLI uses for --verbose and
// --quiet. MDCOMMAND_LOG_FORMAT=json switches to the JSON handler.
//
// Usage:
//
//	log := logging.New("preview")
//	log.Info("listening", "addr", addr)
//
// Output goes to stderr so stdout stays clean for converted Markdown.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Environment variables read at first use.
const (
	EnvLogLevel  = "MDCOMMAND_LOG_LEVEL"
	EnvLogFormat = "MDCOMMAND_LOG_FORMAT"
)

var (
	initLogger sync.Once
	baseLogger *slog.Logger
	level      = new(slog.LevelVar)
)

// New returns a logger tagged with component. An empty component returns
// the base logger.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		level.Set(parseLevel(os.Getenv(EnvLogLevel)))
		baseLogger = NewWithWriter(os.Stderr, os.Getenv(EnvLogFormat), level)
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

// NewWithWriter builds a standalone logger writing to w. format is "json"
// or anything else for text. Tests use it to capture output.
func NewWithWriter(w io.Writer, format string, lvl slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetLevel changes the level of every logger returned by New.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Level reports the current shared level.
func Level() slog.Level {
	return level.Level()
}

// ParseLevel converts a level name to a [slog.Level].
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           -> slog.LevelDebug
//   - "warn", "warning" -> slog.LevelWarn
//   - "error"           -> slog.LevelError
//   - anything else     -> slog.LevelInfo
func ParseLevel(value string) slog.Level {
	return parseLevel(value)
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
