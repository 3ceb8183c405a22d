package identity

import (
	"errors"
	"testing"

	"clinic-access-core/internal/security"
)

type stubVerifier struct {
	claims *security.IdentityClaims
	err    error
}

func (s *stubVerifier) Validate(token string) (*security.IdentityClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func TestResolve_Success(t *testing.T) {
	claims := &security.IdentityClaims{Email: "u1@example.com", Name: "User One"}
	claims.Subject = "user-1"
	r := NewResolver(&stubVerifier{claims: claims})

	id, err := r.Resolve("some-token")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", id.UserID, "user-1")
	}
	if id.Email != "u1@example.com" {
		t.Errorf("Email = %q, want %q", id.Email, "u1@example.com")
	}
}

func TestResolve_EmptyCredential(t *testing.T) {
	r := NewResolver(&stubVerifier{claims: &security.IdentityClaims{}})
	_, err := r.Resolve("")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestResolve_InvalidCredential(t *testing.T) {
	r := NewResolver(&stubVerifier{err: security.ErrInvalidToken})
	_, err := r.Resolve("expired-or-garbage")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestResolve_RoundTripWithRealTokens(t *testing.T) {
	p, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, _, err := p.Issue("user-9", "u9@example.com", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	r := NewResolver(p)
	id, err := r.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.UserID != "user-9" {
		t.Errorf("UserID = %q, want %q", id.UserID, "user-9")
	}
}
