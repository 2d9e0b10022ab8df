package user

import (
	"context"
	"sync"

	"github.com/maauso/dreamjob/internal/record/id"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository used when no
// database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[int]User
	byEmail map[string]int
	ids     *id.Allocator
}

// NewMemoryRepository creates a new in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[int]User),
		byEmail: make(map[string]int),
		ids:     id.NewAllocator(),
	}
}

// Save inserts a user, rejecting duplicate emails.
func (r *MemoryRepository) Save(_ context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return User{}, ErrEmailTaken
	}
	u.ID = r.ids.Next()
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

// FindByEmail retrieves a user by email.
func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byEmail[email]
	if !ok {
		return User{}, false, nil
	}
	return r.byID[userID], true, nil
}

// FindByID retrieves a user by ID.
func (r *MemoryRepository) FindByID(_ context.Context, userID int) (User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[userID]
	return u, ok, nil
}
