package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

const tokenBytes = 32 // 256 bits of entropy

type entry struct {
	username  string
	expiresAt time.Time
}

// Manager holds active sessions in process memory. Sessions do not survive
// a restart and are not shared across processes (single-instance assumption).
// Safe for concurrent use by parallel request handlers.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager with the given session lifetime
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a new opaque session token for the user
func (m *Manager) Create(username string) (string, time.Time, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	expiresAt := m.now().Add(m.ttl)

	m.mu.Lock()
	m.sessions[token] = entry{username: username, expiresAt: expiresAt}
	m.mu.Unlock()

	return token, expiresAt, nil
}

// User returns the username bound to a token, or "" if the token is absent
// or expired. Expired entries are evicted lazily on lookup.
func (m *Manager) User(token string) (string, bool) {
	m.mu.RLock()
	e, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return "", false
	}

	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// replaced the entry.
		if cur, ok := m.sessions[token]; ok && m.now().After(cur.expiresAt) {
			delete(m.sessions, token)
		}
		m.mu.Unlock()
		return "", false
	}

	return e.username, true
}

// Clear removes a session. No-op if the token is absent.
func (m *Manager) Clear(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Len returns the number of sessions currently held, including entries
// that expired but have not been looked up yet.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
