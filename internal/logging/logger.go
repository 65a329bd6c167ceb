// Package logging provides structured logging configuration using log/slog.
//
// The console shares its terminal with the interactive prompts, so logs are
// written to stderr or a file and default to warn level. Each menu operation
// gets an operation id that is carried in the context and attached to every
// log entry written on its behalf.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const ctxKeyOperationID contextKey = "op_id"

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "warn")
// Format values: "text", "json" (default: "text")
func Setup(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// OpenOutput returns the writer logs should go to: the named file opened for
// append, or stderr when path is empty. The returned close func is never nil.
func OpenOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stderr, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, f.Close, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// WithOperation returns a context tagged with a fresh operation id.
//
// Usage:
//
//	ctx = logging.WithOperation(ctx)
//	logging.FromContext(ctx).Info("plan added", "rows", n)
func WithOperation(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyOperationID, uuid.NewString())
}

// OperationID returns the operation id stored in ctx, or "".
func OperationID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyOperationID).(string); ok {
		return v
	}
	return ""
}

// FromContext returns the default logger enriched with the operation id
// carried by ctx, if any.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if id := OperationID(ctx); id != "" {
		logger = logger.With("op_id", id)
	}

	return logger
}

// WithFields returns a context logger with additional structured fields.
//
// Usage:
//
//	logger := logging.WithFields(ctx, "operation", "add_plan", "career", code)
//	logger.Info("inserting plan rows", "subjects", len(codes))
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
