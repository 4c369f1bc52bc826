// pkg/logging/logger_test.go
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line, err := buf.ReadString('\n')
	if err != nil {
		t.Fatalf("reading log line: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	return record
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)

	logger.Info(context.Background(), "panel started", "tick_rate", 60)

	record := decodeLine(t, &buf)
	if record["msg"] != "panel started" {
		t.Errorf("msg = %v, expected 'panel started'", record["msg"])
	}
	if record["tick_rate"] != float64(60) {
		t.Errorf("tick_rate = %v, expected 60", record["tick_rate"])
	}
	if record["level"] != "INFO" {
		t.Errorf("level = %v, expected INFO", record["level"])
	}
}

func TestLogger_SessionIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)

	ctx := WithSessionID(context.Background(), "abc123")
	logger.Info(ctx, "tick")

	record := decodeLine(t, &buf)
	if record["session_id"] != "abc123" {
		t.Errorf("session_id = %v, expected abc123", record["session_id"])
	}
}

func TestLogger_NoSessionIDWithoutContextValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)

	logger.Info(context.Background(), "tick")

	record := decodeLine(t, &buf)
	if _, present := record["session_id"]; present {
		t.Error("session_id present without a context value")
	}
}

func TestLogger_ErrorIncludesErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)

	logger.Error(context.Background(), "config load failed", errors.New("boom"))

	record := decodeLine(t, &buf)
	if record["error"] != "boom" {
		t.Errorf("error = %v, expected boom", record["error"])
	}
	if record["level"] != "ERROR" {
		t.Errorf("level = %v, expected ERROR", record["level"])
	}
}

func TestWithSessionID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithSessionID(context.Background(), "")
	id := GetSessionID(ctx)

	if id == "" {
		t.Fatal("expected a generated session ID")
	}
	if len(id) != 16 {
		t.Errorf("generated session ID length = %d, expected 16 hex chars", len(id))
	}
}

func TestGetSessionID_EmptyWithoutValue(t *testing.T) {
	if id := GetSessionID(context.Background()); id != "" {
		t.Errorf("GetSessionID on bare context = %q, expected empty", id)
	}
}

func TestGetLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{value: "DEBUG", expected: "DEBUG"},
		{value: "warn", expected: "WARN"},
		{value: "WARNING", expected: "WARN"},
		{value: "ERROR", expected: "ERROR"},
		{value: "nonsense", expected: "INFO"},
		{value: "", expected: "INFO"},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.value, func(t *testing.T) {
			t.Setenv("SHIPNAV_LOG_LEVEL", tt.value)
			level := getLogLevelFromEnv()
			if level.String() != tt.expected {
				t.Errorf("getLogLevelFromEnv() with %q = %v, expected %v", tt.value, level, tt.expected)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("parse failure")

	wrapped := WrapError(base, "loading %s", "config.json")
	if wrapped == nil {
		t.Fatal("expected a wrapped error")
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error must preserve the original for errors.Is")
	}
	if !strings.Contains(wrapped.Error(), "loading config.json") {
		t.Errorf("wrapped message = %q, expected to contain context", wrapped.Error())
	}

	if WrapError(nil, "ignored") != nil {
		t.Error("WrapError(nil) must return nil")
	}
}
