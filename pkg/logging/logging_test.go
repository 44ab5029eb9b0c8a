package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{" WARN ", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.WarnLevel)
	l.Info("hidden")
	l.Warn("shown", "tag", "Text")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "tag=Text") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Error("empty context should yield the default logger")
	}
	l := New(&bytes.Buffer{}, log.DebugLevel)
	if FromContext(WithLogger(context.Background(), l)) != l {
		t.Error("attached logger not returned")
	}
}
