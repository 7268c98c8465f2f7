package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("weatherlink_collection_started", "station", "1234")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "weatherlink_collection_started" || entry["station"] != "1234" || entry["name"] != "stationbridge" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false, slog.LevelDebug).Debug("conversion_complete")

	if !strings.Contains(buf.String(), "msg=conversion_complete") {
		t.Fatalf("expected text output, got %q", buf.String())
	}
}

func TestInitSetsDefault(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	var buf bytes.Buffer
	Init(&buf, false, slog.LevelInfo)
	slog.Info("observation_sent")

	if !strings.Contains(buf.String(), "observation_sent") {
		t.Fatalf("expected default logger to write to buffer, got %q", buf.String())
	}
}
