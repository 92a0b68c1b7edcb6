package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"identity-api/internal/domain"
	"identity-api/internal/metrics"
	"identity-api/internal/repository"
)

const bearerScheme = "bearer"

// TokenValidator valida un token y devuelve su subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// IdentityResolver convierte un bearer token en el Principal del request.
type IdentityResolver struct {
	logger        *zap.Logger
	tokens        TokenValidator
	store         repository.Store
	requireActive bool
}

func NewIdentityResolver(logger *zap.Logger, tokens TokenValidator, store repository.Store, requireActive bool) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityResolver{
		logger:        logger,
		tokens:        tokens,
		store:         store,
		requireActive: requireActive,
	}
}

// BearerToken extrae el token de un header "Authorization: Bearer <token>".
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// ResolveHeader resuelve el valor crudo del header Authorization.
func (r *IdentityResolver) ResolveHeader(ctx context.Context, header string) (domain.Principal, error) {
	token, ok := BearerToken(header)
	if !ok {
		r.reject("missing_token")
		return domain.Principal{}, ErrMissingToken
	}
	return r.Resolve(ctx, token)
}

// Resolve valida el token y busca la cuenta de su subject.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	subject, err := r.tokens.Validate(token)
	if err != nil {
		r.reject("invalid_token")
		return domain.Principal{}, ErrInvalidToken
	}

	var account domain.Account
	err = r.store.WithinScope(ctx, func(ctx context.Context, accounts repository.AccountRepository) error {
		found, err := accounts.GetByEmail(ctx, subject)
		if err != nil {
			return err
		}
		account = found
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		r.reject("account_not_found")
		return domain.Principal{}, ErrAccountNotFound
	case err != nil:
		metrics.RecordAuth("resolve", metrics.OutcomeStoreFailure)
		r.logger.Error("resolve identity lookup failed", zap.Error(err))
		return domain.Principal{}, err
	}

	if r.requireActive && !account.IsActive {
		r.reject("account_inactive")
		return domain.Principal{}, ErrAccountNotFound
	}

	account.PasswordHash = ""
	metrics.RecordAuth("resolve", metrics.OutcomeSuccess)
	return domain.Principal{Account: account}, nil
}

func (r *IdentityResolver) reject(reason string) {
	metrics.RecordAuth("resolve", metrics.OutcomeRejected)
	r.logger.Info("identity rejected", zap.String("reason", reason))
}
