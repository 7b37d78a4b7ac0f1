// Package logging defines the structured-logging interface used across
// filedesk. The only implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Warn(ctx, "backend logout failed", "err", err)
type Logger interface {
	// Debug logs diagnostic detail (request paths, state transitions).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for swallowed or degraded failures.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures surfaced to the user.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
