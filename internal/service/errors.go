package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidInput       = errors.New("invalid input")

	// ErrUnauthorized agrupa todos los rechazos del resolver.
	ErrUnauthorized    = errors.New("unauthorized")
	ErrMissingToken    = fmt.Errorf("%w: not authenticated", ErrUnauthorized)
	ErrInvalidToken    = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrAccountNotFound = fmt.Errorf("%w: user not found", ErrUnauthorized)
)
