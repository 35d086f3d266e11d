package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTrimPathDepth(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		depth int
		want  string
	}{
		{name: "longer than depth", path: "a/b/c/d.go", depth: 3, want: "b/c/d.go"},
		{name: "equal to depth", path: "c/d.go", depth: 2, want: "c/d.go"},
		{name: "shorter than depth", path: "d.go", depth: 3, want: "d.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimPathDepth(tt.path, tt.depth); got != tt.want {
				t.Errorf("trimPathDepth(%q, %d) = %q, want %q", tt.path, tt.depth, got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, false},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewWithWriter_AddsCaller(t *testing.T) {
	t.Setenv("ENV", "")
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "DEBUG")

	l.With("component", "test").Debug("hello")

	out := buf.String()
	if !strings.Contains(out, "msg=hello") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("expected attribute in output, got %q", out)
	}
	if !strings.Contains(out, "caller=pkg/logger/logger_test.go:") {
		t.Errorf("expected caller attribute in output, got %q", out)
	}
}

func TestNewWithWriter_Level(t *testing.T) {
	t.Setenv("ENV", "")
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "error")

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info record to be filtered, got %q", buf.String())
	}
}

func TestNewWithWriter_ProductionJSON(t *testing.T) {
	t.Setenv("ENV", "production")
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "")

	l.Debug("dropped")
	l.Info("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("debug record should be filtered in production, got %q", out)
	}
	if !strings.Contains(out, `"msg":"kept"`) {
		t.Errorf("expected JSON record, got %q", out)
	}
}
