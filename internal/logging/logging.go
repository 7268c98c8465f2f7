package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New builds a logger writing to w. JSON is meant for log collectors; text
// is easier to read in a terminal.
func New(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("name", "stationbridge"))
}

// Init builds a logger with New and installs it as the slog default.
func Init(w io.Writer, json bool, level slog.Level) *slog.Logger {
	logger := New(w, json, level)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
