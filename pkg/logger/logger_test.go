package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONIncludesService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, Format: JSON, Output: &buf, Service: "api"})

	log.Info("hello", "k", "v")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record[SERVICE] != "api" {
		t.Errorf("expected service attribute 'api', got %v", record[SERVICE])
	}
	if record["msg"] != "hello" {
		t.Errorf("expected msg 'hello', got %v", record["msg"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		logFn   func(l *Logger)
		visible bool
	}{
		{"debug hidden at info", INFO, func(l *Logger) { l.Debug("x") }, false},
		{"warn visible at info", INFO, func(l *Logger) { l.Warn("x") }, true},
		{"info hidden at error", ERROR, func(l *Logger) { l.Info("x") }, false},
		{"unknown level falls back to info", "verbose", func(l *Logger) { l.Info("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: tt.level, Output: &buf})
			tt.logFn(l)
			if got := buf.Len() > 0; got != tt.visible {
				t.Errorf("visible = %v, want %v", got, tt.visible)
			}
		})
	}
}

func TestErrorf_FormatsMessage(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: TEXT, Output: &buf})

	l.Errorf("broker %s unreachable", "kafka:9092")

	if !strings.Contains(buf.String(), "broker kafka:9092 unreachable") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
