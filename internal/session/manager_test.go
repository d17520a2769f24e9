package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/avashisth/buddy-backend/internal/domain"
)

const (
	testPrompt   = "You are a supportive assistant."
	testGreeting = "Hey buddy, how are you today?"
)

func newTestManager() *Manager {
	return NewManager(testPrompt, testGreeting)
}

func TestStartOrContinueAllocatesFreshSession(t *testing.T) {
	m := newTestManager()

	sess, isNew, err := m.StartOrContinue("", "42")
	if err != nil {
		t.Fatalf("StartOrContinue failed: %v", err)
	}
	if !isNew {
		t.Error("expected a new session")
	}
	if sess.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if sess.Role != EmployeeRole {
		t.Errorf("role = %q, want %q", sess.Role, EmployeeRole)
	}
	if len(sess.Messages) != 2 {
		t.Fatalf("expected system prompt + greeting, got %d messages", len(sess.Messages))
	}
	if sess.Messages[0].Role != domain.RoleSystem || sess.Messages[0].Content != testPrompt {
		t.Errorf("message 0 = %+v, want system prompt", sess.Messages[0])
	}
	if sess.Messages[1].Role != domain.RoleAssistant || sess.Messages[1].Content != testGreeting {
		t.Errorf("message 1 = %+v, want greeting", sess.Messages[1])
	}
}

func TestStartOrContinueGeneratesUnseenIDs(t *testing.T) {
	m := newTestManager()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sess, _, err := m.StartOrContinue("", "42")
		if err != nil {
			t.Fatalf("StartOrContinue failed: %v", err)
		}
		if seen[sess.SessionID] {
			t.Fatalf("session id %q issued twice", sess.SessionID)
		}
		seen[sess.SessionID] = true
	}
}

func TestStartOrContinueReturnsSameSession(t *testing.T) {
	m := newTestManager()

	created, _, err := m.StartOrContinue("", "42")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, isNew, err := m.StartOrContinue(created.SessionID, "42")
	if err != nil || isNew {
		t.Fatalf("lookup = (isNew %v, err %v), want existing session", isNew, err)
	}
	second, _, err := m.StartOrContinue(created.SessionID, "42")
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}

	if first.SessionID != second.SessionID || len(first.Messages) != len(second.Messages) {
		t.Error("repeated lookups must observe the same session state")
	}
	if m.Len() != 1 {
		t.Errorf("table has %d sessions, want 1 (no duplication)", m.Len())
	}
}

func TestStartOrContinueUnknownID(t *testing.T) {
	m := newTestManager()
	_, _, err := m.StartOrContinue("nope", "42")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestAppendTurnKeepsSystemPrompt(t *testing.T) {
	m := newTestManager()
	sess, _, _ := m.StartOrContinue("", "42")

	for _, text := range []string{"hi", "work was long", "end of day"} {
		if _, err := m.AppendTurn(sess.SessionID, text, ""); err != nil {
			t.Fatalf("AppendTurn(%q) failed: %v", text, err)
		}
	}

	got, _, err := m.StartOrContinue(sess.SessionID, "42")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.Messages[0].Role != domain.RoleSystem {
		t.Error("system prompt must stay at index 0 across the session lifetime")
	}
	if !strings.HasPrefix(got.Messages[0].Content, testPrompt) {
		t.Error("system prompt content must only ever be appended to")
	}
	if len(got.Messages) != 5 {
		t.Errorf("expected 5 messages, got %d", len(got.Messages))
	}
}

func TestAppendTurnSplicesProfileOnce(t *testing.T) {
	m := newTestManager()
	sess, _, _ := m.StartOrContinue("", "42")

	ctxLine := "Sam is a waiter with autism."
	first, err := m.AppendTurn(sess.SessionID, "hello", ctxLine)
	if err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}
	if !strings.Contains(first.Messages[0].Content, ctxLine) {
		t.Error("profile context should be spliced into the system prompt")
	}

	second, err := m.AppendTurn(sess.SessionID, "again", ctxLine)
	if err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}
	if n := strings.Count(second.Messages[0].Content, ctxLine); n != 1 {
		t.Errorf("profile context spliced %d times, want exactly once", n)
	}
}

func TestAppendTurnActivatesSession(t *testing.T) {
	m := newTestManager()
	sess, _, _ := m.StartOrContinue("", "42")
	if sess.State != domain.SessionNew {
		t.Fatalf("fresh session state = %q, want new", sess.State)
	}

	got, err := m.AppendTurn(sess.SessionID, "hi", "")
	if err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}
	if got.State != domain.SessionActive {
		t.Errorf("state after first turn = %q, want active", got.State)
	}
}

func TestAppendTurnRejectsEndedSession(t *testing.T) {
	m := newTestManager()
	sess, _, _ := m.StartOrContinue("", "42")
	m.AppendTurn(sess.SessionID, "hi", "")

	if _, err := m.MarkEnding(sess.SessionID); err != nil {
		t.Fatalf("MarkEnding failed: %v", err)
	}
	if _, err := m.AppendTurn(sess.SessionID, "still here?", ""); !errors.Is(err, domain.ErrSessionRetired) {
		t.Errorf("err = %v, want ErrSessionRetired", err)
	}
}

func TestMarkEndingClaimsSessionOnce(t *testing.T) {
	m := newTestManager()
	sess, _, _ := m.StartOrContinue("", "42")
	m.AppendTurn(sess.SessionID, "hi", "")

	// The sweep claims the session first.
	if swept := m.SweepExpired(0); len(swept) != 1 {
		t.Fatalf("SweepExpired returned %d sessions, want 1", len(swept))
	}

	// An explicit end arriving while the sweep's claim is pending must not
	// win a second claim, or inference would run twice for one session.
	if _, err := m.MarkEnding(sess.SessionID); !errors.Is(err, domain.ErrSessionRetired) {
		t.Errorf("second claim err = %v, want ErrSessionRetired", err)
	}
}

func TestSweepExpiredHonoursThreshold(t *testing.T) {
	m := newTestManager()
	base := time.Now()
	m.now = func() time.Time { return base }

	fresh, _, _ := m.StartOrContinue("", "1")
	m.AppendTurn(fresh.SessionID, "hi", "")

	stale, _, _ := m.StartOrContinue("", "2")
	m.AppendTurn(stale.SessionID, "hi", "")

	// Only the second session crosses the threshold.
	m.now = func() time.Time { return base.Add(5 * time.Minute) }
	m.AppendTurn(fresh.SessionID, "still here", "")

	expired := m.SweepExpired(5 * time.Minute)
	if len(expired) != 1 || expired[0].SessionID != stale.SessionID {
		t.Fatalf("SweepExpired returned %d sessions, want only the stale one", len(expired))
	}
	if expired[0].State != domain.SessionEnding {
		t.Errorf("swept session state = %q, want ending", expired[0].State)
	}

	// A session idle for exactly the threshold is expired; one below is not.
	if got := m.SweepExpired(time.Hour); len(got) != 0 {
		t.Errorf("sessions below threshold must never be swept, got %d", len(got))
	}
}

func TestRetireRemovesOnlyThatSession(t *testing.T) {
	m := newTestManager()
	a, _, _ := m.StartOrContinue("", "1")
	b, _, _ := m.StartOrContinue("", "2")

	m.Retire(a.SessionID)

	if m.Len() != 1 {
		t.Fatalf("table has %d sessions after retire, want 1", m.Len())
	}
	if _, _, err := m.StartOrContinue(b.SessionID, "2"); err != nil {
		t.Errorf("unrelated session was dropped: %v", err)
	}
	if _, _, err := m.StartOrContinue(a.SessionID, "1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("retired session still resolvable: %v", err)
	}
}
