package netlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: LevelWarn, Output: &buf})

	l.Debug("should not appear")
	l.Info("also hidden")
	l.Warn("flush failed", "connID", 7)
	l.Error("protocol violation", "connID", 7, "reason", "unknown id")

	out := buf.String()
	if strings.Contains(out, "should not appear") || strings.Contains(out, "also hidden") {
		t.Fatalf("level filter let a below-threshold message through: %q", out)
	}
	if !strings.Contains(out, "flush failed") || !strings.Contains(out, "connID=7") {
		t.Fatalf("missing expected Warn output: %q", out)
	}
	if !strings.Contains(out, "protocol violation") {
		t.Fatalf("missing expected Error output: %q", out)
	}
}

func TestDefaultLoggerIsLazilyCreated(t *testing.T) {
	if Default() == nil {
		t.Fatalf("Default() returned nil")
	}
	if Default() != Default() {
		t.Fatalf("Default() returned a different instance on the second call")
	}
}
