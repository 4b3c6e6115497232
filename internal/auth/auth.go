package auth

import (
	"context"
	"errors"
)

var (
	// ErrInvalidToken covers malformed, expired and wrongly-signed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Identity is the authenticated caller, as carried by a verified token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Verifier turns a bearer token into a caller identity. The HTTP middleware
// depends on this interface so handlers can be tested with a stub.
type Verifier interface {
	Verify(token string) (Identity, error)
}

type contextKey struct{}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by the auth middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
