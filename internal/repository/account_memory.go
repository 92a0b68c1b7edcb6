package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"identity-api/internal/domain"
)

// MemoryAccountRepository guarda cuentas en memoria, útil en desarrollo y tests.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Account
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byEmail: make(map[string]domain.Account),
	}
}

func (r *MemoryAccountRepository) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byEmail[email]
	if !ok {
		return domain.Account{}, ErrAccountNotFound
	}
	return account, nil
}

func (r *MemoryAccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[account.Email]; exists {
		return domain.Account{}, ErrAccountExists
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	r.byEmail[account.Email] = account
	return account, nil
}

// Delete elimina una cuenta; lo usan los tests para simular bajas externas.
func (r *MemoryAccountRepository) Delete(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byEmail, email)
}
