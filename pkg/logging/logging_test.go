package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, false},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	if got := LevelFromEnv(slog.LevelInfo); got != slog.LevelError {
		t.Errorf("LevelFromEnv = %v, want error", got)
	}

	t.Setenv("LOG_LEVEL", "")
	if got := LevelFromEnv(slog.LevelWarn); got != slog.LevelWarn {
		t.Errorf("LevelFromEnv = %v, want fallback warn", got)
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelWarn))

	logger.Info("hidden")
	logger.Warn("Mirror sync failed", "error", "timeout")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "Mirror sync failed") || !strings.Contains(out, "error=timeout") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no color codes for a buffer: %q", out)
	}
}
