package learner

import (
	"log/slog"
	"sync"
	"time"
)

// Factory creates a session for a learner tab.
type Factory func(userID, sessionID string) (*Session, error)

// Manager keeps the live sessions of every learner, keyed by user and tab.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  Factory
}

// NewManager creates a session manager that builds sessions with factory.
func NewManager(factory Factory) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

// NewFactory returns a Factory that builds sessions from opts.
func NewFactory(opts Options) Factory {
	return func(userID, sessionID string) (*Session, error) {
		return NewSession(userID, sessionID, opts)
	}
}

func sessionKey(userID, sessionID string) string {
	return userID + ":" + sessionID
}

// Get returns the session for userID and sessionID, creating it on first
// use, and marks it active.
func (m *Manager) Get(userID, sessionID string) (*Session, error) {
	key := sessionKey(userID, sessionID)

	m.mu.RLock()
	s, ok := m.sessions[key]
	m.mu.RUnlock()
	if ok {
		s.Touch()
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[key]; ok {
		s.Touch()
		return s, nil
	}

	s, err := m.factory(userID, sessionID)
	if err != nil {
		return nil, err
	}
	m.sessions[key] = s
	slog.Info("Learner session created", "user_id", userID, "session_id", sessionID)
	return s, nil
}

// Lookup returns the session if it exists, without creating or touching it.
func (m *Manager) Lookup(userID, sessionID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sessionKey(userID, sessionID)]
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Evict removes and closes one session.
func (m *Manager) Evict(userID, sessionID string) bool {
	key := sessionKey(userID, sessionID)

	m.mu.Lock()
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	slog.Info("Learner session evicted", "user_id", userID, "session_id", sessionID)
	return true
}

// EvictIdle removes and closes every session idle for at least ttl and
// returns how many were evicted.
func (m *Manager) EvictIdle(ttl time.Duration) int {
	now := time.Now()

	m.mu.Lock()
	var expired []*Session
	for key, s := range m.sessions {
		if s.IdleFor(now) >= ttl {
			expired = append(expired, s)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
		slog.Info("Learner session expired", "user_id", s.UserID, "session_id", s.SessionID)
	}
	return len(expired)
}

// CloseUser removes and closes every session of userID.
func (m *Manager) CloseUser(userID string) int {
	m.mu.Lock()
	var closing []*Session
	for key, s := range m.sessions {
		if s.UserID == userID {
			closing = append(closing, s)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, s := range closing {
		s.Close()
	}
	return len(closing)
}

// CloseAll closes every session. It is used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
