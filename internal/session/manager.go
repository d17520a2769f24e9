// Package session holds the in-memory conversation table and its lifecycle.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avashisth/buddy-backend/internal/domain"
)

// EmployeeRole is the fixed participant category for employee sessions.
const EmployeeRole = "employee"

// Manager owns the shared session table. Every read and mutation goes
// through its methods under the table lock; callers only ever see clones, so
// no lock is held across outbound calls.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session

	systemPrompt string
	greeting     string

	now   func() time.Time
	newID func() string
}

// NewManager creates an empty session table. New sessions start with the
// given system prompt at index 0 and the fixed assistant greeting.
func NewManager(systemPrompt, greeting string) *Manager {
	return &Manager{
		sessions:     make(map[string]*domain.Session),
		systemPrompt: systemPrompt,
		greeting:     greeting,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// StartOrContinue returns the session for the given id, or allocates a fresh
// one when the id is empty. The second return value reports whether the
// session is new. An unknown id fails with domain.ErrSessionNotFound.
func (m *Manager) StartOrContinue(sessionID, userID string) (domain.Session, bool, error) {
	if sessionID == "" {
		return m.create(userID), true, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return domain.Session{}, false, domain.ErrSessionNotFound
	}
	return sess.Clone(), false, nil
}

func (m *Manager) create(userID string) domain.Session {
	now := m.now()
	sess := &domain.Session{
		SessionID:    m.newID(),
		UserID:       userID,
		Role:         EmployeeRole,
		State:        domain.SessionNew,
		CreatedAt:    now,
		LastActivity: now,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: m.systemPrompt},
			{Role: domain.RoleAssistant, Content: m.greeting},
		},
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.SessionID] = sess
	return sess.Clone()
}

// AppendTurn appends a user message, refreshes last activity, and moves a new
// session to active. On the first real turn the profile context is spliced
// onto the system instruction; the instruction itself is never removed.
func (m *Manager) AppendTurn(sessionID, text, profileContext string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if !sess.IsActive() {
		return domain.Session{}, domain.ErrSessionRetired
	}

	if !sess.ProfileAttached && profileContext != "" {
		sess.Messages[0].Content += "\n\n" + profileContext
		sess.ProfileAttached = true
	}

	sess.Append(domain.RoleUser, text)
	sess.LastActivity = m.now()
	sess.State = domain.SessionActive

	return sess.Clone(), nil
}

// AppendAssistant records the model's reply for a turn.
func (m *Manager) AppendAssistant(sessionID, reply string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.Append(domain.RoleAssistant, reply)
	return nil
}

// MarkEnding moves a session into the ending state ahead of mood inference.
// The transition is a one-time claim: a session already ending belongs to
// whichever end path got there first (explicit end or the inactivity sweep),
// and a second claim fails with ErrSessionRetired so inference cannot run
// twice for one session.
func (m *Manager) MarkEnding(sessionID string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if sess.State == domain.SessionEnding || sess.State == domain.SessionRetired {
		return domain.Session{}, domain.ErrSessionRetired
	}
	sess.State = domain.SessionEnding
	return sess.Clone(), nil
}

// Retire removes the single retired session from the table. Other sessions
// are untouched.
func (m *Manager) Retire(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[sessionID]; ok {
		sess.State = domain.SessionRetired
		delete(m.sessions, sessionID)
	}
}

// SweepExpired marks every active session idle for at least threshold as
// ending and returns their clones for the inference queue. Sessions below
// the threshold are never touched.
func (m *Manager) SweepExpired(threshold time.Duration) []domain.Session {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []domain.Session
	for _, sess := range m.sessions {
		if !sess.IsActive() || sess.IdleFor(now) < threshold {
			continue
		}
		sess.State = domain.SessionEnding
		expired = append(expired, sess.Clone())
	}
	return expired
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
