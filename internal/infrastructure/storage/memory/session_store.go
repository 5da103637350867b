// Package memory keeps sessions in process memory. Sessions are lost on
// restart and are not shared between instances.
package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"passvault/internal/domain/session"
)

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	now      func() time.Time
	log      *slog.Logger
}

func NewSessionStore(log *slog.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session.Session),
		now:      time.Now,
		log:      log.With("component", "memory_session_store"),
	}
}

// Create stores s and drops every session that has already expired.
func (m *SessionStore) Create(_ context.Context, s session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for hash, existing := range m.sessions {
		if existing.Expired(now) {
			delete(m.sessions, hash)
			removed++
		}
	}
	if removed > 0 {
		m.log.Debug("expired sessions removed", "count", removed)
	}

	m.sessions[s.TokenHash] = s
	return nil
}

func (m *SessionStore) Lookup(_ context.Context, tokenHash string) (session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[tokenHash]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	if s.Expired(m.now()) {
		delete(m.sessions, tokenHash)
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (m *SessionStore) Delete(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, tokenHash)
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (m *SessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
