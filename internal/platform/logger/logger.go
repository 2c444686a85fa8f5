package logger

import (
	"log/slog"
	"os"
)

// New returns a structured JSON logger using slog.
// Non-production environments log at debug level.
func New(env string) *slog.Logger {
	level := slog.LevelInfo
	if env != "" && env != "prod" && env != "production" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
