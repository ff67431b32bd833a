// Package logger configures the process-wide structured logger and
// carries request correlation ids through contexts.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type requestIDKey struct{}

// New returns a JSON slog logger writing to stdout. The minimum level
// comes from LOG_LEVEL (debug, info, warn, error); unset or unknown
// values mean info.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID stores a request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// FromContext attaches the context's request id, if any, to base.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	reqID := RequestIDFromContext(ctx)
	if reqID == "" {
		return base
	}
	return base.With("request_id", reqID)
}
