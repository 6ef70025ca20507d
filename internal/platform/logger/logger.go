package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns the application logger: structured JSON on stdout. Level is
// controlled by LOG_LEVEL (debug, info, warn, error); default info.
func New() *slog.Logger {
	return NewWithLevel(os.Getenv("LOG_LEVEL"))
}

// NewWithLevel builds a logger at the named level. Unknown names fall back
// to info.
func NewWithLevel(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
