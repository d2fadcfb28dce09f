// Package logging builds the application's slog loggers.
package logging

import (
	"io"
	"log/slog"
)

// New creates a text logger writing to w at the given level. It writes to
// stderr in production so stdout stays free for command output, and
// standardizes the "error" key to "err".
func New(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
