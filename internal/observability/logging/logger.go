package logging

import (
	"log/slog"
	"os"
	"strings"
)

// appName tags every log line so the api and indexer binaries can be
// told apart from other services in a shared log stream.
const appName = "mentormate"

// NewJSONLogger builds the process-wide JSON logger. The service
// attribute distinguishes the api from the indexer.
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("app", appName, "service", service)
}

// parseLevel is forgiving: an unknown or empty LOG_LEVEL falls back to
// info rather than failing startup.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
