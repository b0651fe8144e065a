package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func decodeLine(t *testing.T, line string) entry {
	t.Helper()
	var e entry
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		t.Fatalf("Failed to decode log line %q: %v", line, err)
	}
	return e
}

func TestJSONLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("update pass complete", Objective("setup"), Pins(42))

	e := decodeLine(t, strings.TrimSpace(buf.String()))
	if e.Level != "INFO" {
		t.Errorf("Expected level INFO, got %s", e.Level)
	}
	if e.Message != "update pass complete" {
		t.Errorf("Unexpected message %q", e.Message)
	}
	if e.Fields["objective"] != "setup" {
		t.Errorf("Expected objective=setup, got %v", e.Fields["objective"])
	}
	// JSON numbers decode as float64
	if e.Fields["pins"] != float64(42) {
		t.Errorf("Expected pins=42, got %v", e.Fields["pins"])
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %q", len(lines), buf.String())
	}
	if e := decodeLine(t, lines[0]); e.Message != "visible" {
		t.Errorf("Expected only the warn entry, got %q", e.Message)
	}
}

func TestJSONLogger_WithPresetsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel).With(Objective("hold"))

	logger.Info("slacks updated", Pins(7))

	e := decodeLine(t, strings.TrimSpace(buf.String()))
	if e.Fields["objective"] != "hold" {
		t.Errorf("Preset field missing: %v", e.Fields)
	}
	if e.Fields["pins"] != float64(7) {
		t.Errorf("Call-site field missing: %v", e.Fields)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != DebugLevel {
		t.Error("debug not parsed")
	}
	if ParseLevel("WARNING") != WarnLevel {
		t.Error("WARNING not parsed")
	}
	if ParseLevel("bogus") != InfoLevel {
		t.Error("Unknown level should default to info")
	}
}

func TestFieldConstructors(t *testing.T) {
	if f := Latency(3 * time.Millisecond); f.Key != "latency" || f.Value != "3ms" {
		t.Errorf("Latency field wrong: %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) should carry nil value, got %+v", f)
	}
	if f := Mode("incremental"); f.Key != "mode" || f.Value != "incremental" {
		t.Errorf("Mode field wrong: %+v", f)
	}
}

func TestNopLogger(t *testing.T) {
	var logger Logger = NopLogger{}
	// Must not panic and With must return a usable logger.
	logger.With(String("k", "v")).Info("ignored")
}
