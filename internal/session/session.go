// Package session issues explicit per-user session handles. Every service
// operation takes the user ID from a handle rather than reading ambient
// module-level state, so a background write can never race a user switch.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Session is a handle for one authenticated user's interactive session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
}

// Resetter is implemented by services holding per-session state that must
// be cleared when a new session starts (e.g. the prompt engine's
// shown-this-session flag).
type Resetter interface {
	ResetSession(ctx context.Context, userID string)
}

// Manager tracks active sessions and runs login-time housekeeping.
type Manager struct {
	mu       sync.RWMutex
	adapter  storage.Adapter
	log      *logger.Logger
	sessions map[string]Session
	resetter []Resetter
}

// NewManager creates a session manager over the persistence adapter.
func NewManager(adapter storage.Adapter, log *logger.Logger, resetters ...Resetter) *Manager {
	if log == nil {
		log = logger.NewDefault("session")
	}
	return &Manager{
		adapter:  adapter,
		log:      log,
		sessions: make(map[string]Session),
		resetter: resetters,
	}
}

// Login starts a session for userID. It migrates any legacy unnamespaced
// blobs into the user's namespace (one-time, idempotent) and resets
// per-session service state.
func (m *Manager) Login(ctx context.Context, userID string) (Session, error) {
	if err := storage.MigrateLegacy(ctx, m.adapter, userID, m.log); err != nil {
		// Migration failure leaves the legacy data in place for a later
		// attempt; the session still starts with namespaced defaults.
		m.log.WithError(err).WithField("user_id", userID).Warn("legacy migration failed")
	}

	for _, r := range m.resetter {
		r.ResetSession(ctx, userID)
	}

	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	m.log.WithField("user_id", userID).WithField("session_id", sess.ID).Info("session started")
	return sess, nil
}

// Get looks up an active session by ID.
func (m *Manager) Get(sessionID string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sessionID]
	return sess, ok
}

// Logout ends a session. Subsequent reads for the user fall back to
// defaults only through a fresh login; no user data is deleted.
func (m *Manager) Logout(sessionID string) {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if ok {
		m.log.WithField("user_id", sess.UserID).WithField("session_id", sessionID).Info("session ended")
	}
}
