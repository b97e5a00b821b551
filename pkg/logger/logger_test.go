package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSetupWriterJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "debug", "json")
	ctx := WithRunID(context.Background(), "run-1")
	FromContext(ctx).Debug("evaluated", "corpus", "cacm")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", line["run_id"])
	}
	if line["corpus"] != "cacm" {
		t.Errorf("corpus = %v, want cacm", line["corpus"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRunIDMissing(t *testing.T) {
	if got := RunID(context.Background()); got != "" {
		t.Errorf("RunID() = %q, want empty", got)
	}
}
