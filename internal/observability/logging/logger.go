package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewServiceLogger writes to stdout tagged with the service name. An empty
// format selects JSON.
func NewServiceLogger(service, level, format string) *slog.Logger {
	return New(os.Stdout, service, level, format)
}

// PickFormat returns the first non-empty format, or fallback.
func PickFormat(fallback string, formats ...string) string {
	for _, format := range formats {
		if f := strings.TrimSpace(format); f != "" {
			return f
		}
	}
	return fallback
}

// New builds a logger writing to w. format "text" selects the human-readable
// handler used by the CLI; anything else selects JSON.
func New(w io.Writer, service, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", service)
}

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
