package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, password := range []string{"password123", "", "ñandú-pässwörd", strings.Repeat("x", 200)} {
		hash, err := h.Hash(password)
		if err != nil {
			t.Fatalf("hash %q: %v", password, err)
		}
		if hash == password {
			t.Fatalf("hash must not equal plaintext")
		}
		if !h.Verify(password, hash) {
			t.Fatalf("expected %q to verify against its own hash", password)
		}
		if h.Verify(password+"!", hash) {
			t.Fatalf("expected different password to be rejected")
		}
	}
}

func TestBcryptHasher_IsSalted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected different hashes for the same password")
	}
	if !h.Verify("password123", first) || !h.Verify("password123", second) {
		t.Fatalf("expected both hashes to verify")
	}
	if !strings.HasPrefix(first, "$2a$04$") {
		t.Fatalf("expected self-describing bcrypt hash with cost 4, got %s", first)
	}
}

func TestBcryptHasher_LongPasswordsDoNotCollide(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	prefix := strings.Repeat("a", 80)

	hash, err := h.Hash(prefix + "-one")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h.Verify(prefix+"-two", hash) {
		t.Fatalf("passwords differing after byte 72 must not verify")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	for _, stored := range []string{"", "not-a-hash", "$2a$10$short"} {
		if h.Verify("password123", stored) {
			t.Fatalf("expected malformed hash %q to be rejected", stored)
		}
	}
}

func TestNewBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	if h := NewBcryptHasher(1); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
