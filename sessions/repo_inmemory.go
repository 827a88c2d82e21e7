package sessions

import (
	"context"
	"errors"
	"sync"
	"time"
)

// InMemoryStore is a thread-safe in-memory implementation of the Store interface
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*FlowSession
	maxAge   time.Duration
	now      func() time.Time
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a store whose sessions expire after maxAge.
// A zero maxAge disables expiry.
func NewInMemoryStore(maxAge time.Duration) *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*FlowSession),
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// WithClock replaces the time source, used by tests to move past expiry.
func (r *InMemoryStore) WithClock(now func() time.Time) *InMemoryStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
	return r
}

// Upsert stores or updates a flow session
func (r *InMemoryStore) Upsert(_ context.Context, sessionID string, session *FlowSession) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}
	if session == nil {
		return errors.New("session cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := session.clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	r.sessions[sessionID] = stored
	return nil
}

// Get retrieves a flow session. Expired sessions are dropped and reported as not found.
func (r *InMemoryStore) Get(_ context.Context, sessionID string) (*FlowSession, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	r.mu.RLock()
	session, exists := r.sessions[sessionID]
	expired := exists && r.expired(session)
	r.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}
	if expired {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	return session.clone(), nil
}

// Delete removes a flow session
func (r *InMemoryStore) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// DeleteExpired removes every session older than the configured max age.
func (r *InMemoryStore) DeleteExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if r.expired(session) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (r *InMemoryStore) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *InMemoryStore) expired(session *FlowSession) bool {
	if r.maxAge <= 0 {
		return false
	}
	return r.now().Sub(session.CreatedAt) > r.maxAge
}
