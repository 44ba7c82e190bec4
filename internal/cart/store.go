package cart

import (
	"sync"
	"time"
)

// Store keeps one cart per session id. Mutations for a given session are
// serialized through the session's own lock so concurrent requests cannot
// split a product across two line items.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu       sync.Mutex
	cart     *Cart
	lastSeen time.Time
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: map[string]*session{}}
}

// With runs fn against the session's cart while holding the session lock.
// The session is created on first use.
func (s *Store) With(sessionID string, fn func(c *Cart)) {
	sess := s.acquire(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = time.Now()
	fn(sess.cart)
}

// Drop discards the session and its cart entirely.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Prune removes sessions idle longer than maxIdle and reports how many
// were dropped.
func (s *Store) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (s *Store) acquire(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{cart: NewCart(), lastSeen: time.Now()}
		s.sessions[sessionID] = sess
	}
	return sess
}
