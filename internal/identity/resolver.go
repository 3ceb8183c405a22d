// Package identity resolves inbound bearer credentials to user identities.
package identity

import (
	"errors"

	"clinic-access-core/internal/security"
)

// ErrUnauthenticated is returned for an absent, malformed, or expired
// credential. There is no anonymous identity: resolution either yields a
// user or fails.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the resolved acting user.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Verifier verifies an access token and returns its claims.
// *security.TokenProvider implements it.
type Verifier interface {
	Validate(token string) (*security.IdentityClaims, error)
}

// Resolver verifies bearer credentials against the identity provider's
// signing key. Read-only; no side effects.
type Resolver struct {
	verifier Verifier
}

// NewResolver returns a Resolver backed by the given verifier.
func NewResolver(verifier Verifier) *Resolver {
	return &Resolver{verifier: verifier}
}

// Resolve verifies credential and returns the identity it names.
// Every verification failure maps to ErrUnauthenticated so callers never
// mistake a bad credential for an empty-permission user.
func (r *Resolver) Resolve(credential string) (*Identity, error) {
	if credential == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := r.verifier.Validate(credential)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return &Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
