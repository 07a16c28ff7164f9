package identity

import (
	"context"
	"log/slog"
)

// Caller is the verified identity of the party invoking a function.
type Caller struct {
	UserID string
	// Email is the token's email claim, if any. The directory remains the
	// source of truth.
	Email string
}

func (c *Caller) Authenticated() bool {
	return c != nil && c.UserID != ""
}

type contextKey struct{}

func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// CallerFromContext returns nil when the request is unauthenticated.
func CallerFromContext(ctx context.Context) *Caller {
	c, _ := ctx.Value(contextKey{}).(*Caller)
	return c
}

// LoggerExtractor adds the caller's user ID to log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if c := CallerFromContext(ctx); c.Authenticated() {
			return slog.String("user_id", c.UserID), true
		}
		return slog.Attr{}, false
	}
}
