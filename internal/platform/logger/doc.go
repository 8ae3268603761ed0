// Package logger configures structured JSON logging on log/slog and carries
// request-scoped loggers through a context.Context.
package logger
