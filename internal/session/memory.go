package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// expirySweepInterval bounds how often Create scans for expired sessions.
const expirySweepInterval = time.Minute

// MemoryStore keeps sessions in process memory. Expired sessions are dropped
// on lookup and by a periodic scan during Create.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]Session
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore creates a MemoryStore. A non-positive ttl selects DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session with a random token. At most once per
// expirySweepInterval it also drops every expired session.
func (s *MemoryStore) Create(_ context.Context, userID int) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= expirySweepInterval {
		for token, sess := range s.sessions {
			if !now.Before(sess.ExpiresAt) {
				delete(s.sessions, token)
			}
		}
		s.lastSweep = now
	}

	sess := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[sess.Token] = sess
	return sess, nil
}

// Get returns a live session.
func (s *MemoryStore) Get(_ context.Context, token string) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false, nil
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false, nil
	}
	return sess, true, nil
}

// Delete ends a session.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
