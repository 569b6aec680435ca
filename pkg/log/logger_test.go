package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stderr)
		SetLevel(Notice)
	}()

	logger := New("test")

	SetLevel(Warning)
	logger.Infof("hidden %d", 1)
	logger.Warningf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("info message leaked through warning level: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("expected warning message in output, got %q", out)
	}
	if !strings.Contains(out, "[test]") {
		t.Errorf("expected module name in output, got %q", out)
	}

	SetLevel(Debug)
	if !IsEnabledFor(Debug, "test") {
		t.Error("expected debug to be enabled after SetLevel(Debug)")
	}
}

func TestSetSinkKeepsLevel(t *testing.T) {
	SetLevel(Error)
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stderr)
		SetLevel(Notice)
	}()

	New("test").Warning("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected the error level to survive a new sink, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected Level
	}{
		{"debug", Debug},
		{"INFO", Info},
		{"Notice", Notice},
		{"warning", Warning},
		{"error", Error},
	}
	for _, tt := range tests {
		level, err := ParseLevel(tt.name)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", tt.name, err)
			continue
		}
		if level != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.name, level, tt.expected)
		}
		if !strings.EqualFold(level.String(), tt.name) {
			t.Errorf("expected %v to print as %q", level, tt.name)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
