package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const (
	loggerKey contextKey = iota
	runIDKey
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}

	return Default()
}

// Ctx is a shorter alias for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// WithRunID tags the context and its logger with the id of the current sync run.
func WithRunID(ctx context.Context, runID string) context.Context {
	ctx = context.WithValue(ctx, runIDKey, runID)
	return WithField(ctx, "run_id", runID)
}

// RunID extracts the run ID from context.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithField adds a single string field to the logger in the context.
func WithField(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithFields adds several string fields to the logger in the context.
func WithFields(ctx context.Context, fields map[string]string) context.Context {
	logCtx := FromContext(ctx).With()
	for key, value := range fields {
		logCtx = logCtx.Str(key, value)
	}
	logger := logCtx.Logger()
	return WithLogger(ctx, &logger)
}

// WithRow scopes the logger to a 1-based report data row.
func WithRow(ctx context.Context, row int) context.Context {
	logger := FromContext(ctx).With().Int("row", row).Logger()
	return WithLogger(ctx, &logger)
}

// WithReport adds the report name to the logger.
func WithReport(ctx context.Context, name string) context.Context {
	return WithField(ctx, "report", name)
}

// WithSystem adds the remote system ("fattail" or "edge") to the logger.
func WithSystem(ctx context.Context, system string) context.Context {
	return WithField(ctx, "system", system)
}
