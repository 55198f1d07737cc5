// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup()                          // level from LOG_LEVEL env
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevel(LevelFromEnv(slog.LevelInfo))
}

// SetupWithLevel configures colored logging on stderr at the given level.
// Colors are turned off when stderr is not a terminal.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level)))
}

// NewHandler returns the tint handler used by Setup, writing to w.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
		NoColor:    noColor,
	})
}

// LevelFromEnv returns the level named by LOG_LEVEL, or fallback when it is
// unset or not recognized.
func LevelFromEnv(fallback slog.Level) slog.Level {
	if level, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		return level
	}
	return fallback
}

// ParseLevel converts debug, info, warn or error (any case) to a slog.Level.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
