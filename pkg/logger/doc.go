// Package logger provides structured JSON logging configured from an
// env-filter style severity expression such as "info" or "warn,hello_server=debug".
// It wraps the standard log/slog package and carries request-scoped loggers
// through a context.Context.
package logger
