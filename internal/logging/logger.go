// Package logging defines the structured-logging interface used across
// passionpath and its log/slog implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "rpc served", "method", method, "code", code)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
