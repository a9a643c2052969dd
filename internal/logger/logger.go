package logger

import (
	"log/slog"
	"os"
)

// Load builds the process logger. Unknown levels fall back to info.
func Load(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
