package transform

import (
	"context"
	"log/slog"
)

// LevelTrace is a custom log level more verbose than Debug, used for
// per-candidate logging. Enable with &slog.HandlerOptions{Level: slog.Level(-8)}.
const LevelTrace = slog.Level(-8)

// ComponentLogger returns logger tagged with component, or nil when
// logger is nil.
func ComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	return componentLogger(logger, component)
}

// LogEnabled reports whether logger is set and enabled at level.
func LogEnabled(logger *slog.Logger, level slog.Level) bool {
	return logEnabled(logger, level)
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}
