// Package ctxutil provides context utilities that can be safely imported anywhere.
// It depends only on core/identity to avoid import cycles.
package ctxutil

import (
	"context"

	"github.com/example/rewards/internal/core/identity"
)

// CallerKey is the context key for the calling identity.
// Exported so it can be used consistently across packages.
type CallerKey struct{}

// WithCaller returns a context with the calling identity embedded.
func WithCaller(ctx context.Context, caller identity.Identity) context.Context {
	return context.WithValue(ctx, CallerKey{}, caller)
}

// CallerFromContext returns the calling identity from context, or the zero
// identity if not set. The zero identity never matches a stored role.
func CallerFromContext(ctx context.Context) identity.Identity {
	if v, ok := ctx.Value(CallerKey{}).(identity.Identity); ok {
		return v
	}
	return identity.Zero
}
