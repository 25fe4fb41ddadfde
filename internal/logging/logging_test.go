package logging

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(42), "unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	orig := GetLevel()
	defer SetLevel(orig)

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("Expected LevelError, got %v", GetLevel())
	}

	if IsDebugEnabled() {
		t.Error("Expected debug to be disabled at error level")
	}

	SetLevel(LevelDebug)
	if !IsDebugEnabled() {
		t.Error("Expected debug to be enabled at debug level")
	}
}

func TestLevelFiltering(t *testing.T) {
	orig := GetLevel()
	defer SetLevel(orig)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	SetLevel(LevelWarn)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()

	if strings.Contains(out, "debug message") {
		t.Error("Debug message should be filtered at warn level")
	}
	if strings.Contains(out, "info message") {
		t.Error("Info message should be filtered at warn level")
	}
	if !strings.Contains(out, "[WARN] warn message") {
		t.Error("Warn message should be logged at warn level")
	}
	if !strings.Contains(out, "[ERROR] error message") {
		t.Error("Error message should be logged at warn level")
	}
}
