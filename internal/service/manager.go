package service

import (
	"context"
	"sync"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"go.uber.org/zap"
)

// DefaultSessionIdleTimeout is how long an untouched session is kept.
const DefaultSessionIdleTimeout = 2 * time.Hour

// SessionManager owns the live chat sessions.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	deps        *SessionDeps
	idleTimeout time.Duration
	uuidGen     UUIDGenerator
	now         Clock
	logger      *zap.Logger
}

// NewSessionManager creates a manager. A zero idleTimeout uses the default.
func NewSessionManager(deps *SessionDeps, idleTimeout time.Duration, logger *zap.Logger) *SessionManager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &SessionManager{
		sessions:    make(map[string]*Session),
		deps:        deps,
		idleTimeout: idleTimeout,
		uuidGen:     &DefaultUUIDGenerator{},
		now:         systemClock,
		logger:      logger,
	}
}

// Create starts a new session for a learner.
func (m *SessionManager) Create(learner domain.Learner, responseLength int) *Session {
	s := NewSession(m.uuidGen.NewString(), learner, m.deps)
	s.now = m.now
	s.lastActive = m.now()
	s.responseLength = ClampResponseLength(responseLength)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("session_id", s.ID), zap.String("user", learner.Name))
	return s
}

// Get returns a live session.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Delete ends a session.
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Expire removes sessions idle for longer than the timeout.
func (m *SessionManager) Expire() int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()
	expired := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			expired++
		}
	}
	return expired
}

// ProcessJobs expires idle sessions; it lets the manager run on a jobs.Worker.
func (m *SessionManager) ProcessJobs(ctx context.Context) error {
	if n := m.Expire(); n > 0 {
		m.logger.Info("expired idle sessions", zap.Int("count", n))
	}
	return nil
}
