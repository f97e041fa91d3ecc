// Package logging configures the structured logger shared by the commands.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New returns a JSON logger at the named level. Debug records are only
// written by builds with the diagnostics tag; otherwise debug is treated as
// info.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		if Diagnostics {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
