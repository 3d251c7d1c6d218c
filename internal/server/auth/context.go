package auth

import "context"

type ctxKey struct{}

// Caller is the authenticated user attached to a request.
type Caller struct {
	UserID string
	Email  string
}

// WithCaller stores c in ctx.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// CallerFromContext returns the caller stored by WithCaller.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(Caller)
	return c, ok && c.UserID != ""
}
