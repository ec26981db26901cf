package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLoggerTagsService(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "worker", "info")

	logger.Info("document_processed", "file_id", "f-1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if record["service"] != "worker" {
		t.Fatalf("expected service tag, got %v", record["service"])
	}
	if record["msg"] != "document_processed" {
		t.Fatalf("expected event name, got %v", record["msg"])
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "api", "warn")

	logger.Info("http_request")
	if strings.Contains(buf.String(), "http_request") {
		t.Fatalf("expected info record suppressed at warn level, got %q", buf.String())
	}

	logger.Warn("nats_disconnected")
	if !strings.Contains(buf.String(), "nats_disconnected") {
		t.Fatal("expected warn record emitted")
	}
}
