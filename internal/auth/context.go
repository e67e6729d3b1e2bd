package auth

import "context"

type contextKey string

const identityKey = contextKey("identity")

// Identity is the caller resolved from a verified token.
type Identity struct {
	UserID   string
	Username string
}

// WithIdentity stores the caller's identity on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity placed by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
