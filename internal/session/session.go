// Package session keeps login sessions keyed by opaque tokens.
package session

import (
	"context"
	"time"
)

// DefaultTTL is how long a session stays valid after login.
const DefaultTTL = 24 * time.Hour

// Session binds a token to a logged-in user.
type Session struct {
	Token     string
	UserID    int
	ExpiresAt time.Time
}

// Store defines the interface for session persistence.
type Store interface {
	// Create starts a new session for userID.
	Create(ctx context.Context, userID int) (Session, error)

	// Get returns the live session for token. Expired and unknown tokens
	// are reported as not found.
	Get(ctx context.Context, token string) (Session, bool, error)

	// Delete ends a session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}
