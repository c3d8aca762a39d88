package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns the process logger. Services receive it through their WithLogger
// options; nothing else in the tree calls slog.SetDefault.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Silent returns a logger that discards everything. For tests.
func Silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
