package slogx

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// WithContext stores a logger in the context. HTTPMiddleware does this per
// request so handlers and services log with the request's attributes.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger carried by the context. Outside a request,
// or in tests that never installed one, it falls back to the process default
// so callers never need a nil check.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
