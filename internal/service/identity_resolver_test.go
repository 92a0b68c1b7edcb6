package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"identity-api/internal/domain"
	"identity-api/internal/repository"
)

func setupResolver(t *testing.T, requireActive bool) (*IdentityResolver, *JWTService, *repository.MemoryAccountRepository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Now()}
	tokens := newTestJWTService(t, clock)
	repo := repository.NewMemoryAccountRepository()
	resolver := NewIdentityResolver(zap.NewNop(), tokens, repository.NewSharedStore(repo), requireActive)
	return resolver, tokens, repo, clock
}

func seedAccount(t *testing.T, repo *repository.MemoryAccountRepository, account domain.Account) domain.Account {
	t.Helper()
	created, err := repo.Create(context.Background(), account)
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return created
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc.def.ghi", token: "abc.def.ghi", ok: true},
		{header: "bearer abc.def.ghi", token: "abc.def.ghi", ok: true},
		{header: "  Bearer   abc.def.ghi  ", token: "abc.def.ghi", ok: true},
		{header: "", ok: false},
		{header: "Bearer", ok: false},
		{header: "Bearer ", ok: false},
		{header: "Basic dXNlcjpwYXNz", ok: false},
		{header: "abc.def.ghi", ok: false},
		{header: "Bearer abc def", ok: false},
	}
	for _, tc := range cases {
		token, ok := BearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("BearerToken(%q) = %q,%v; want %q,%v", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}

func TestIdentityResolver_ResolvesAccount(t *testing.T) {
	resolver, tokens, repo, _ := setupResolver(t, false)
	seeded := seedAccount(t, repo, domain.Account{Email: "alice@example.com", PasswordHash: "hash", IsActive: true})

	token, err := tokens.Issue("alice@example.com", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	principal, err := resolver.ResolveHeader(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if principal.Account.ID != seeded.ID || principal.Subject() != "alice@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.Account.PasswordHash != "" {
		t.Fatalf("principal must not carry the password hash")
	}
}

func TestIdentityResolver_Rejections(t *testing.T) {
	resolver, tokens, repo, clock := setupResolver(t, false)
	seedAccount(t, repo, domain.Account{Email: "alice@example.com", PasswordHash: "hash", IsActive: true})

	valid, _ := tokens.Issue("alice@example.com", time.Minute)
	ghost, _ := tokens.Issue("ghost@example.com", 0)

	t.Run("missing header", func(t *testing.T) {
		_, err := resolver.ResolveHeader(context.Background(), "")
		if !errors.Is(err, ErrMissingToken) || !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrMissingToken, got %v", err)
		}
	})

	t.Run("truncated token", func(t *testing.T) {
		_, err := resolver.ResolveHeader(context.Background(), "Bearer "+valid[:len(valid)-1])
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), ghost)
		if !errors.Is(err, ErrAccountNotFound) || !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("account deleted after issue", func(t *testing.T) {
		seedAccount(t, repo, domain.Account{Email: "bob@example.com", PasswordHash: "hash", IsActive: true})
		bob, _ := tokens.Issue("bob@example.com", 0)
		repo.Delete("bob@example.com")
		if _, err := resolver.Resolve(context.Background(), bob); !errors.Is(err, ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		clock.Advance(time.Minute)
		if _, err := resolver.Resolve(context.Background(), valid); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestIdentityResolver_InactiveAccount(t *testing.T) {
	t.Run("accepted by default", func(t *testing.T) {
		resolver, tokens, repo, _ := setupResolver(t, false)
		seedAccount(t, repo, domain.Account{Email: "idle@example.com", PasswordHash: "hash", IsActive: false})
		token, _ := tokens.Issue("idle@example.com", 0)

		if _, err := resolver.Resolve(context.Background(), token); err != nil {
			t.Fatalf("expected inactive account to resolve, got %v", err)
		}
	})

	t.Run("rejected when gate enabled", func(t *testing.T) {
		resolver, tokens, repo, _ := setupResolver(t, true)
		seedAccount(t, repo, domain.Account{Email: "idle@example.com", PasswordHash: "hash", IsActive: false})
		token, _ := tokens.Issue("idle@example.com", 0)

		if _, err := resolver.Resolve(context.Background(), token); !errors.Is(err, ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestIdentityResolver_StoreFailure(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tokens := newTestJWTService(t, clock)
	resolver := NewIdentityResolver(zap.NewNop(), tokens, failingStore{}, false)
	token, _ := tokens.Issue("alice@example.com", 0)

	_, err := resolver.Resolve(context.Background(), token)
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatalf("store failures must not be reported as unauthorized")
	}
}

func TestIdentityResolver_InvalidTokenSkipsStore(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tokens := newTestJWTService(t, clock)
	store := &countingStore{inner: repository.NewSharedStore(repository.NewMemoryAccountRepository())}
	resolver := NewIdentityResolver(zap.NewNop(), tokens, store, false)

	if _, err := resolver.Resolve(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if store.opened != 0 {
		t.Fatalf("expected no store scope for invalid token, got %d", store.opened)
	}
}
