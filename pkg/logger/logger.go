package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls handler construction. Zero value yields a text handler
// at info level writing to stderr.
type Config struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format selects the handler: text or json.
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// New creates a slog.Logger from the config writing to w.
// A nil writer defaults to os.Stderr.
func New(cfg Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
