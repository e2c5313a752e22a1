package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestSlogLogger_Errorf(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLoggerWithWriter(&buf, slog.LevelInfo)

	log.Errorf(errors.New("boom"), "failed to load product %d", 7)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["msg"] != "failed to load product 7" {
		t.Errorf("unexpected msg: %v", record["msg"])
	}
	if record["error"] != "boom" {
		t.Errorf("unexpected error attr: %v", record["error"])
	}
	if record["level"] != "ERROR" {
		t.Errorf("unexpected level: %v", record["level"])
	}
}

func TestSlogLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLoggerWithWriter(&buf, slog.LevelWarn)

	log.Infof("hidden")
	log.Debugf("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	log.Warnf("shown")
	if buf.Len() == 0 {
		t.Fatal("expected warn to be written")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"junk":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
