// Package ctxlog carries a block actor's *slog.Logger on its
// context.Context, so the logger travels alongside the same ctx an actor's
// goroutine already receives instead of needing a separate field threaded
// through every call.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// loggerKey is the key for the slog.Logger in a context.Context.
var loggerKey = key{}

// WithLogger returns ctx with logger embedded, for a block actor's root
// context (set once in registry.New) to carry through to its goroutine.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger embedded by WithLogger. It panics if ctx
// carries none: every actor context is seeded by registry.New before any
// goroutine starts, so a missing logger means a caller built a context
// without going through WithLogger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	panic("ctxlog: logger missing from context")
}
