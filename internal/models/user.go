// ABOUTME: User model for habit owners.
// ABOUTME: Stores the bcrypt password hash, never the plaintext password.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns habits and authenticates with a username and password.
type User struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	Username     string    `json:"username" yaml:"username"`
	PasswordHash string    `json:"-" yaml:"-"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// NewUser creates a User with a generated UUID.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
