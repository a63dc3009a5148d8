package auth

import "context"

// Identity is the authenticated caller attached to every request. Handlers
// receive it as a value, not as loose context keys, so a missing identity
// is caught once at the middleware boundary instead of being re-checked in
// every handler.
type Identity struct {
	UserID   string
	TenantID string
	Role     string
}

type identityKey struct{}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
