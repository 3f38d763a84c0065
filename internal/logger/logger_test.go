package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(DEBUG, JSONFormat, &buf)

	log.Info("generation complete", map[string]interface{}{"countries": 42})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "generation complete" {
		t.Errorf("Expected message 'generation complete', got %s", entry.Message)
	}
	if entry.Fields["countries"] != float64(42) {
		t.Errorf("Expected countries field 42, got %v", entry.Fields["countries"])
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(DEBUG, TextFormat, &buf)

	log.Warnf("provider returned status %d", 503)

	output := buf.String()
	if !strings.Contains(output, "WARN") {
		t.Errorf("Expected WARN in output, got: %s", output)
	}
	if !strings.Contains(output, "provider returned status 503") {
		t.Errorf("Expected formatted message in output, got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(WARN, TextFormat, &buf)

	log.Debug("should be suppressed")
	log.Info("should be suppressed too")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below WARN, got: %s", buf.String())
	}

	log.Warn("visible")
	if buf.Len() == 0 {
		t.Error("Expected WARN message to be written")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(DEBUG, JSONFormat, &buf).WithComponent("aggregator")

	log.Info("table computed")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log entry: %v", err)
	}
	if entry.Component != "aggregator" {
		t.Errorf("Expected component aggregator, got %s", entry.Component)
	}
}

func TestErrorField(t *testing.T) {
	var buf bytes.Buffer
	log := New(DEBUG, JSONFormat, &buf)

	log.Error("fetch failed", errors.New("connection refused"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log entry: %v", err)
	}
	if entry.Error != "connection refused" {
		t.Errorf("Expected error field, got %s", entry.Error)
	}
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	log := New(DEBUG, TextFormat, &buf)

	exitCode := -1
	log.exit = func(code int) { exitCode = code }

	log.Fatal("unrecoverable", errors.New("boom"))

	if exitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "FATAL") {
		t.Errorf("Expected FATAL in output, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warning", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
		{"nonsense", INFO},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
