package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"identity-api/internal/domain"
	"identity-api/internal/metrics"
	"identity-api/internal/repository"
)

const tokenTypeBearer = "bearer"

// TokenIssuer emite access tokens para un subject.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

// AuthService coordina registro y login.
type AuthService struct {
	logger    *zap.Logger
	store     repository.Store
	hasher    PasswordHasher
	tokens    TokenIssuer
	dummyHash string
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Privileged  bool
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewAuthService(logger *zap.Logger, store repository.Store, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Hash de relleno para que un email desconocido cueste lo mismo que una contraseña errónea.
	dummyHash, err := hasher.Hash("identity-api:unknown-account")
	if err != nil {
		logger.Warn("dummy hash generation failed", zap.Error(err))
	}
	return &AuthService{
		logger:    logger,
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummyHash,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.Account, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return domain.Account{}, ErrInvalidInput
	}

	var created domain.Account
	err := s.store.WithinScope(ctx, func(ctx context.Context, accounts repository.AccountRepository) error {
		_, err := accounts.GetByEmail(ctx, email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return err
		}

		passwordHash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		created, err = accounts.Create(ctx, domain.Account{
			Email:        email,
			PasswordHash: passwordHash,
			DisplayName:  strings.TrimSpace(input.DisplayName),
			IsActive:     true,
			IsPrivileged: input.Privileged,
		})
		if errors.Is(err, repository.ErrAccountExists) {
			return ErrEmailTaken
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			metrics.RecordAuth("register", metrics.OutcomeConflict)
			return domain.Account{}, err
		}
		metrics.RecordAuth("register", metrics.OutcomeStoreFailure)
		return domain.Account{}, err
	}

	metrics.RecordAuth("register", metrics.OutcomeSuccess)
	s.logger.Info("account registered", zap.String("account_id", created.ID))
	created.PasswordHash = ""
	return created, nil
}

// Login devuelve ErrInvalidCredentials tanto para email desconocido como para contraseña incorrecta.
func (s *AuthService) Login(ctx context.Context, email, password string) (AccessToken, error) {
	email = strings.TrimSpace(email)

	var account domain.Account
	err := s.store.WithinScope(ctx, func(ctx context.Context, accounts repository.AccountRepository) error {
		found, err := accounts.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		account = found
		return nil
	})
	if errors.Is(err, repository.ErrAccountNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		metrics.RecordAuth("login", metrics.OutcomeRejected)
		return AccessToken{}, ErrInvalidCredentials
	}
	if err != nil {
		metrics.RecordAuth("login", metrics.OutcomeStoreFailure)
		return AccessToken{}, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		metrics.RecordAuth("login", metrics.OutcomeRejected)
		return AccessToken{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.Email, 0)
	if err != nil {
		return AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	metrics.RecordAuth("login", metrics.OutcomeSuccess)
	return AccessToken{AccessToken: token, TokenType: tokenTypeBearer}, nil
}
