package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/ugaemi/dragonboatrace-server/internal/store"
	"github.com/ugaemi/dragonboatrace-server/internal/ws"
)

// ErrNoCode is returned when every session code draw collided.
var ErrNoCode = errors.New("no free session code")

// Manager manages all active sessions.
type Manager struct {
	sessions map[string]*Session // code -> session
	byClient map[string]string   // client ID -> code
	store    store.RaceStore
	opts     Options
	codes    func(taken func(code string) bool) (string, bool)
	mu       sync.RWMutex
}

// NewManager creates a session manager whose sessions share a store and options.
func NewManager(st store.RaceStore, opts Options) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		byClient: make(map[string]string),
		store:    st,
		opts:     opts,
		codes:    GenerateCode,
	}
}

// SessionFor returns the client's session, creating one on first use.
func (m *Manager) SessionFor(client *ws.Client) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if code, ok := m.byClient[client.ID]; ok {
		return m.sessions[code], nil
	}

	code, ok := m.codes(func(c string) bool {
		_, taken := m.sessions[c]
		return taken
	})
	if !ok {
		slog.Error("failed to allocate session code", "client", client.ID, "sessions", len(m.sessions))
		return nil, ErrNoCode
	}
	s := NewSession(code, client, m.store, m.opts)
	m.sessions[code] = s
	m.byClient[client.ID] = code

	slog.Info("session created", "code", code, "client", client.ID)
	return s, nil
}

// GetSession returns a session by its code.
func (m *Manager) GetSession(code string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[code]
}

// FindByClient returns the client's session, or nil.
func (m *Manager) FindByClient(clientID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[m.byClient[clientID]]
}

// RemoveSession stops a session's race and forgets it.
func (m *Manager) RemoveSession(code string) {
	m.mu.Lock()
	s, ok := m.sessions[code]
	if ok {
		delete(m.sessions, code)
		delete(m.byClient, s.client.ID)
	}
	m.mu.Unlock()

	if ok {
		s.Stop()
		slog.Info("session removed", "code", code)
	}
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
