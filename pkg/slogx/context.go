package slogx

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// WithContext returns ctx carrying logger.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the request logger, falling back to slog.Default for
// work that runs outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// With returns ctx carrying the context logger extended with args.
func With(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithUserID tags every later log line of the request with the caller.
func WithUserID(ctx context.Context, userID string) context.Context {
	return With(ctx, slog.String("user_id", userID))
}
