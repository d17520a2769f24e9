// Package domain contains core domain types for the wellbeing assistant.
package domain

import (
	"time"
)

// SessionState tracks where a session is in its lifecycle.
// Valid transitions: new -> active -> ending -> retired. There is no
// transition out of retired.
type SessionState string

const (
	SessionNew     SessionState = "new"
	SessionActive  SessionState = "active"
	SessionEnding  SessionState = "ending"
	SessionRetired SessionState = "retired"
)

// Chat message roles as sent to the completion service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single role-tagged message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session represents one ongoing conversation with an employee.
// The message at index 0 is always the system instruction; it is only ever
// appended to, never removed.
type Session struct {
	SessionID    string        `json:"session_id"`
	UserID       string        `json:"user_id"`
	Role         string        `json:"role"`
	State        SessionState  `json:"state"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
	Messages     []ChatMessage `json:"messages"`

	// ProfileAttached records that profile context has been spliced into
	// the system instruction. It happens at most once per session.
	ProfileAttached bool `json:"-"`
}

// IsActive reports whether the session still accepts user turns.
func (s *Session) IsActive() bool {
	return s.State == SessionNew || s.State == SessionActive
}

// Append adds a message to the session history.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, ChatMessage{Role: role, Content: content})
}

// Clone returns a deep copy of the session. Handlers work on clones so that
// no caller holds a reference into the shared session table.
func (s *Session) Clone() Session {
	out := *s
	out.Messages = make([]ChatMessage, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}

// IdleFor reports how long the session has been without activity.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}
