package service

import (
	"context"
	"errors"

	"identity-api/internal/repository"
)

var errStoreDown = errors.New("store down")

// failingStore simula una caída del almacenamiento.
type failingStore struct{}

func (failingStore) WithinScope(context.Context, func(context.Context, repository.AccountRepository) error) error {
	return errStoreDown
}

// countingStore cuenta cuántos scopes se abren y cierran.
type countingStore struct {
	inner    repository.Store
	opened   int
	released int
}

func (s *countingStore) WithinScope(ctx context.Context, fn func(context.Context, repository.AccountRepository) error) error {
	s.opened++
	defer func() { s.released++ }()
	return s.inner.WithinScope(ctx, fn)
}
