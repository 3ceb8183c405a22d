package security

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret" || hash == "" {
		t.Fatalf("hash = %q, want bcrypt digest", hash)
	}
	if err := h.Compare(hash, "s3cret"); err != nil {
		t.Errorf("Compare with correct password: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.Errorf("Compare with wrong password: err = %v, want mismatch", err)
	}
}

func TestNewHasher_ClampsCost(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, bcrypt.DefaultCost},
		{-1, bcrypt.DefaultCost},
		{2, bcrypt.MinCost},
		{bcrypt.MaxCost + 5, bcrypt.MaxCost},
		{12, 12},
	}
	for _, tt := range tests {
		if got := NewHasher(tt.in).cost; got != tt.want {
			t.Errorf("NewHasher(%d).cost = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHasher_CompareRejectsInvalidHash(t *testing.T) {
	if err := NewHasher(bcrypt.MinCost).Compare("not-a-bcrypt-hash", "pw"); err == nil {
		t.Error("Compare with invalid hash: want error")
	}
}
