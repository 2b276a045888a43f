// Package sessions provides the in-memory session store behind login
// cookies. Tokens are opaque to the client; the only server-side state
// is the token -> user id association kept here in process memory.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session records one authenticated browser's association with a user.
type Session struct {
	Token     string
	UserID    uint
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store holds active sessions. A background worker sweeps expired
// entries so an abandoned browser does not leak memory; Resolve also
// checks expiry itself and never returns a stale identity.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	stopCh   chan struct{}
}

// NewStore creates a session store whose tokens expire after ttl and
// starts the cleanup worker.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
	go s.sweepLoop(time.Minute)
	return s
}

// Create issues a fresh token for the given user and records the
// session. Each call issues a distinct token; logging in twice from
// two browsers yields two independent sessions.
func (s *Store) Create(userID uint) string {
	now := time.Now()
	session := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return session.Token
}

// Resolve returns the user id associated with a token, or false when
// the token is unknown, invalidated, or expired. Expired entries are
// removed on the spot.
func (s *Store) Resolve(token string) (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(s.sessions, token)
		return 0, false
	}
	return session.UserID, true
}

// Delete invalidates a token. Resolving it afterwards returns false.
// Deleting an unknown token is a no-op.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// DeleteUser invalidates every session belonging to one user.
func (s *Store) DeleteUser(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
}

// Len reports the number of live sessions, expired or not yet swept
// included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the cleanup worker.
func (s *Store) Close() {
	close(s.stopCh)
}

func (s *Store) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Store) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
