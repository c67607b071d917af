package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithTrigger returns a logger with trigger context fields attached.
// Use this for all logging inside a trigger evaluation.
func WithTrigger(family, key string) *slog.Logger {
	return slog.With(
		"trigger_family", family,
		"trigger_key", key,
	)
}

// WithTick returns a logger scoped to one poller tick.
func WithTick(logger *slog.Logger, tick int64, activities int) *slog.Logger {
	return logger.With(
		"tick", tick,
		"activities", activities,
	)
}
