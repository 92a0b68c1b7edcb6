package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"identity-api/internal/domain"
)

const redisAccountPrefix = "identity:account:"

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// redisAccount es la forma serializada; a diferencia de domain.Account incluye el hash.
type redisAccount struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	DisplayName  string    `json:"display_name"`
	IsActive     bool      `json:"is_active"`
	IsPrivileged bool      `json:"is_privileged"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedisAccountRepository guarda cada cuenta como un documento JSON indexado por email.
type RedisAccountRepository struct {
	client redisKV
	prefix string
}

func NewRedisAccountRepository(client *redis.Client) *RedisAccountRepository {
	return &RedisAccountRepository{
		client: client,
		prefix: redisAccountPrefix,
	}
}

func (r *RedisAccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	raw, err := r.client.Get(ctx, r.prefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	var stored redisAccount
	if err := json.Unmarshal(raw, &stored); err != nil {
		return domain.Account{}, fmt.Errorf("decode account: %w", err)
	}
	return domain.Account(stored), nil
}

func (r *RedisAccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(redisAccount(account))
	if err != nil {
		return domain.Account{}, fmt.Errorf("encode account: %w", err)
	}
	ok, err := r.client.SetNX(ctx, r.prefix+account.Email, payload, 0).Result()
	if err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	if !ok {
		return domain.Account{}, ErrAccountExists
	}
	return account, nil
}
