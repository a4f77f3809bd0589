// Package auth provides user accounts and session tokens.
package auth

import (
	"strings"
	"time"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
)

// User represents an operator account. Every ledger movement is stamped
// with the id of the user who applied it.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewUser creates a user with a fresh id.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           id.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// Credentials is the register/login input.
type Credentials struct {
	Username string
	Password string
}

// Validate checks the credential rules applied at registration.
func (c Credentials) Validate() error {
	username := strings.TrimSpace(c.Username)
	if len(username) < 3 {
		return apperror.NewValidation("username must be at least 3 characters").WithDetail("field", "username")
	}
	if len(c.Password) < 6 {
		return apperror.NewValidation("password must be at least 6 characters").WithDetail("field", "password")
	}
	return nil
}
