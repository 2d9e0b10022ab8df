// Package user provides registered accounts and credential checks.
package user

import (
	"context"
	"errors"
)

var (
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user: email already registered")
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("user: invalid email or password")
)

// User is a registered account.
type User struct {
	ID           int
	Email        string
	Name         string
	PasswordHash string
}

// Repository defines the interface for user persistence.
// Email uniqueness is enforced by the implementation.
type Repository interface {
	// Save inserts a new user and returns it with its assigned ID.
	// Returns ErrEmailTaken if the email is already registered.
	Save(ctx context.Context, u User) (User, error)

	// FindByEmail retrieves a user by email.
	FindByEmail(ctx context.Context, email string) (User, bool, error)

	// FindByID retrieves a user by ID.
	FindByID(ctx context.Context, id int) (User, bool, error)
}
