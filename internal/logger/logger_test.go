package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Info("dropped")
	log.Warn("kept", slog.Int("days", 365))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "kept" {
		t.Errorf("msg = %v, want kept", entry["msg"])
	}
	if entry["days"] != float64(365) {
		t.Errorf("days = %v, want 365", entry["days"])
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "text").Info("hello", slog.String("year", "2025"))

	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "year=2025") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Errorf("RequestID(empty) = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "abc-123")
	if got := RequestID(ctx); got != "abc-123" {
		t.Errorf("RequestID() = %q, want abc-123", got)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "info", "text")

	FromContext(WithRequestID(context.Background(), "req-7"), base).Info("served")
	if !strings.Contains(buf.String(), "request_id=req-7") {
		t.Errorf("log output %q missing request_id", buf.String())
	}

	buf.Reset()
	FromContext(context.Background(), base).Info("served")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("log output %q has request_id without one on the context", buf.String())
	}

	if FromContext(context.Background(), nil) != slog.Default() {
		t.Error("nil base should fall back to slog.Default()")
	}
}
