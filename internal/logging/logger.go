// Package logging defines the structured-logging interface used across
// timecapsule, with slog and zerolog backed implementations.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "upload completed", "attachment", id, "media_id", mediaID)
type Logger interface {
	// Debug logs stage-level detail that is noisy in normal operation.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported values for the LogFormat configuration option.
const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatConsole = "console"
)

// New builds a Logger writing to w in the requested format. Unknown formats
// fall back to JSON.
func New(format string, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	switch format {
	case FormatConsole:
		return NewConsoleLogger(w)
	case FormatText:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, nil)))
	default:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil)))
	}
}

// Nop returns a Logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
