package domain

import "time"

// Account es el registro de identidad persistido por el store.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	IsActive     bool      `json:"is_active"`
	IsPrivileged bool      `json:"is_privileged"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal es la identidad autenticada asociada a un request.
type Principal struct {
	Account Account
}

// Subject devuelve el identificador que los tokens afirman para este principal.
func (p Principal) Subject() string {
	return p.Account.Email
}
