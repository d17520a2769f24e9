// Package mood implements the end-of-session emotion inference workflow.
package mood

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avashisth/buddy-backend/internal/docstore"
	"github.com/avashisth/buddy-backend/internal/domain"
	"github.com/avashisth/buddy-backend/internal/llm"
	"github.com/avashisth/buddy-backend/internal/store"
)

// Workflow formats the closing prompt, invokes the completion client once,
// parses the structured result and writes the emotion event. No step is
// retried; any failure is fatal for the session being ended.
type Workflow struct {
	llm  llm.Client
	repo store.Repository
	docs docstore.Store
}

// NewWorkflow wires the inference workflow.
func NewWorkflow(client llm.Client, repo store.Repository, docs docstore.Store) *Workflow {
	return &Workflow{llm: client, repo: repo, docs: docs}
}

type inferenceResult struct {
	Mood   string `json:"mood"`
	Reason string `json:"reason"`
}

// Infer runs mood inference over an ended session's full history and
// persists one emotion event keyed by the employee id. The final
// conversation record is stored alongside it.
func (w *Workflow) Infer(ctx context.Context, sess domain.Session) (*domain.EmotionEvent, error) {
	history := append(sess.Clone().Messages, domain.ChatMessage{
		Role:    domain.RoleUser,
		Content: llm.MoodClosingPrompt(),
	})

	raw, err := w.llm.Complete(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("mood completion: %w", err)
	}

	label, reason, err := parseResult(raw)
	if err != nil {
		return nil, err
	}

	event := &domain.EmotionEvent{
		UserID:    sess.UserID,
		Reason:    reason,
		Emotion:   label,
		CreatedAt: time.Now(),
	}
	if err := w.repo.InsertEmotionEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("%w: store emotion event: %v", domain.ErrUpstreamUnavailable, err)
	}

	// The ended conversation is persisted for the dashboard; a write
	// failure here does not undo the recorded emotion event.
	final := sess.Clone()
	final.State = domain.SessionRetired
	if err := w.docs.UpsertConversation(ctx, &final); err != nil {
		slog.Warn("failed to persist ended conversation",
			"session_id", sess.SessionID,
			"user_id", sess.UserID,
			"error", err)
	}

	slog.Info("mood inferred",
		"session_id", sess.SessionID,
		"user_id", sess.UserID,
		"mood", event.Emotion)

	return event, nil
}

// parseResult decodes the model reply into the strict two-field shape. Any
// deviation, including an unknown mood label or extra fields, is a
// MalformedInferenceResult.
func parseResult(raw string) (domain.Mood, string, error) {
	cleaned := llm.StripFences(raw)

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.DisallowUnknownFields()

	var res inferenceResult
	if err := dec.Decode(&res); err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrMalformedInferenceResult, err)
	}
	if dec.More() {
		return "", "", fmt.Errorf("%w: trailing content after result object", domain.ErrMalformedInferenceResult)
	}

	label, ok := domain.ParseMood(res.Mood)
	if !ok {
		return "", "", fmt.Errorf("%w: unknown mood label %q", domain.ErrMalformedInferenceResult, res.Mood)
	}
	if strings.TrimSpace(res.Reason) == "" {
		return "", "", fmt.Errorf("%w: empty reason", domain.ErrMalformedInferenceResult)
	}

	return label, strings.TrimSpace(res.Reason), nil
}
