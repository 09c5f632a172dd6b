package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

var discard = slog.New(slog.DiscardHandler)

// NewContext returns a copy of ctx carrying log.
func NewContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext returns the logger stored in ctx. Without one it returns
// fallback, or a logger that drops every record if fallback is nil.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return discard
}
