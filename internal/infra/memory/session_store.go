package memory

import (
	"context"
	"sync"
	"time"

	"dev-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// With a positive TTL, sessions idle for longer than it are dropped; each
// save refreshes the deadline, as in the Redis store.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	clock    func() time.Time
	sessions map[string]storedSession
}

type storedSession struct {
	state     domain.SessionState
	expiresAt time.Time
}

// NewSessionStore keeps sessions until they are deleted.
func NewSessionStore() *SessionStore {
	return NewSessionStoreWithTTL(0)
}

// NewSessionStoreWithTTL expires sessions not saved within ttl. ttl <= 0 disables expiry.
func NewSessionStoreWithTTL(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]storedSession),
	}
}

func (s *SessionStore) Save(_ context.Context, state domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.sweep(now)
	entry := storedSession{state: state}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.sessions[state.ID] = entry
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domain.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	if !ok || entry.expired(s.clock()) {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return entry.state, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports how many live sessions are held.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.clock())
	return len(s.sessions)
}

// sweep drops expired sessions. Callers hold the write lock.
func (s *SessionStore) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, entry := range s.sessions {
		if entry.expired(now) {
			delete(s.sessions, id)
		}
	}
}

func (e storedSession) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}
