package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"identity-api/internal/domain"
)

type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgAccountRepository implementa AccountRepository sobre pgx.
type PgAccountRepository struct {
	db pgQuerier
}

func NewPgAccountRepository(db pgQuerier) *PgAccountRepository {
	return &PgAccountRepository{db: db}
}

func (r *PgAccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	const query = `
		SELECT id, email, password_hash, display_name, is_active, is_privileged, created_at
		FROM accounts
		WHERE email = $1
	`
	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	return account, nil
}

func (r *PgAccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
		INSERT INTO accounts (id, email, password_hash, display_name, is_active, is_privileged)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, email, password_hash, display_name, is_active, is_privileged, created_at
	`
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	created, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.IsActive,
		account.IsPrivileged,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.Account{}, ErrAccountExists
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.DisplayName,
		&a.IsActive,
		&a.IsPrivileged,
		&a.CreatedAt,
	)
	return a, err
}

// PgStore abre una transacción por scope y la cierra al terminar.
type PgStore struct {
	pool pgBeginner
}

func NewPgStore(pool pgBeginner) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) WithinScope(ctx context.Context, fn func(ctx context.Context, accounts AccountRepository) error) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin scope: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = fmt.Errorf("commit scope: %w", cerr)
		}
	}()

	return fn(ctx, NewPgAccountRepository(tx))
}
