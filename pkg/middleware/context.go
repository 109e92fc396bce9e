package middleware

import (
	"context"

	"github.com/AliFrzngn/zcoil/internal/domain"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	tokenKey    contextKey = "bearer_token"
)

// WithIdentity attaches the request-scoped identity snapshot.
func WithIdentity(ctx context.Context, identity *domain.ResolvedIdentity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the identity placed by the auth middleware.
func IdentityFrom(ctx context.Context) (*domain.ResolvedIdentity, bool) {
	identity, ok := ctx.Value(identityKey).(*domain.ResolvedIdentity)
	return identity, ok
}

// WithToken stashes the raw bearer token so downstream service calls can
// forward the caller's credential.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFrom returns the raw bearer token for the request.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
