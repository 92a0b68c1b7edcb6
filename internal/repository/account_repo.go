package repository

import (
	"context"
	"errors"

	"identity-api/internal/domain"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// AccountRepository define el contrato de persistencia para cuentas.
// Create asigna el ID y devuelve ErrAccountExists si el email ya existe.
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
}

// Store entrega un AccountRepository ligado a un único scope de trabajo.
// El handle se libera al volver fn, tanto en éxito como en error o panic.
type Store interface {
	WithinScope(ctx context.Context, fn func(ctx context.Context, accounts AccountRepository) error) error
}

type sharedStore struct {
	accounts AccountRepository
}

// NewSharedStore envuelve un repositorio sin transacciones (redis, memoria).
func NewSharedStore(accounts AccountRepository) Store {
	return &sharedStore{accounts: accounts}
}

func (s *sharedStore) WithinScope(ctx context.Context, fn func(ctx context.Context, accounts AccountRepository) error) error {
	return fn(ctx, s.accounts)
}
