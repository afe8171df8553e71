package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo}, // Default for unknown
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestInitForCLI(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Info("Test", "info message %d", 1)
	Debug("Test", "debug message")

	output := buf.String()
	if !strings.Contains(output, "info message 1") {
		t.Errorf("expected info message in output, got: %s", output)
	}
	if strings.Contains(output, "debug message") {
		t.Errorf("debug message should be filtered at info level, got: %s", output)
	}
	if !strings.Contains(output, "subsystem=Test") {
		t.Errorf("expected subsystem attribute in output, got: %s", output)
	}
}

func TestErrorIncludesErrorAttribute(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelDebug, &buf)

	Error("Store", errors.New("disk full"), "failed to persist credential")

	output := buf.String()
	if !strings.Contains(output, "disk full") {
		t.Errorf("expected error detail in output, got: %s", output)
	}
	if !strings.Contains(output, "failed to persist credential") {
		t.Errorf("expected message in output, got: %s", output)
	}
}

func TestDefaultFallsBackToSlog(t *testing.T) {
	saved := defaultLogger
	defer func() { defaultLogger = saved }()

	defaultLogger = nil
	if Default() == nil {
		t.Error("Default() returned nil without initialization")
	}

	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)
	if Default() != defaultLogger {
		t.Error("Default() should return the configured logger")
	}
}
