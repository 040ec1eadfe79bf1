package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/payments-engine/internal/config"
)

// NewLogger creates a JSON slog.Logger writing to the configured output
func NewLogger(cfg *config.Config) *slog.Logger {
	out := io.Writer(os.Stderr)
	if strings.EqualFold(cfg.Logging.Output, "stdout") {
		out = os.Stdout
	}
	return New(out, cfg.Logging.Level)
}

// New creates a JSON slog.Logger writing to w at the named level
func New(w io.Writer, levelName string) *slog.Logger {
	level := ParseLevel(levelName)

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source code location to log output
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(w, opts))
	logger.Debug("logger initialized", "level", level)

	return logger
}

// ParseLevel maps a level name to a slog.Level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
