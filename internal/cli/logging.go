package cli

import (
	"io"
	"log/slog"
)

// NewLogger builds the CLI logger. Warnings are shown by default, -v adds
// info and -vv adds debug. quiet limits output to errors.
func NewLogger(w io.Writer, verbosity int, quiet bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: LogLevel(verbosity, quiet)}))
}

// LogLevel maps the verbosity flags to a slog level.
func LogLevel(verbosity int, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}
