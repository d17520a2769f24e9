package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/avashisth/buddy-backend/internal/domain"
	"github.com/go-chi/chi/v5"
)

// endSignal is the literal chat message that ends a session explicitly.
const endSignal = "end"

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	End       bool   `json:"end"`
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	Response  any    `json:"response"`
}

// EmployeeChat handles one conversational turn for the employee. An "end"
// message, or a session already past its active window, runs mood inference
// over the full history and retires the session.
func (h *Handler) EmployeeChat(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		Error(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	resp, err := h.chatTurn(r.Context(), userID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

// chatTurn runs a single turn of the chat flow. It is shared between the
// HTTP and websocket transports.
func (h *Handler) chatTurn(ctx context.Context, userID string, req chatRequest) (chatResponse, error) {
	endRequested := strings.EqualFold(strings.TrimSpace(req.Message), endSignal)
	if endRequested && req.SessionID == "" {
		// There is no conversation to infer a mood from yet.
		return chatResponse{}, errEndBeforeStart
	}

	profile, err := h.docs.GetProfile(ctx, userID)
	if err != nil {
		return chatResponse{}, err
	}

	sess, _, err := h.sessions.StartOrContinue(req.SessionID, userID)
	if err != nil {
		return chatResponse{}, err
	}

	if endRequested || !sess.IsActive() {
		return h.endTurn(ctx, sess.SessionID)
	}

	sess, err = h.sessions.AppendTurn(sess.SessionID, req.Message, profile.Context())
	if err != nil {
		return chatResponse{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, h.cfg.LLMCallTimeout)
	defer cancel()

	reply, err := h.llm.Complete(callCtx, sess.Messages)
	if err != nil {
		return chatResponse{}, err
	}
	if err := h.sessions.AppendAssistant(sess.SessionID, reply); err != nil {
		return chatResponse{}, err
	}

	return chatResponse{
		End:       false,
		Status:    "success",
		SessionID: sess.SessionID,
		Message:   "Received employee message",
		Response:  reply,
	}, nil
}

// endTurn moves the session to ending, records the explicit end signal in
// the history, runs mood inference, and removes the session from the table
// whatever the outcome. The sweep path does the same for idle sessions.
func (h *Handler) endTurn(ctx context.Context, sessionID string) (chatResponse, error) {
	sess, err := h.sessions.MarkEnding(sessionID)
	if err != nil {
		return chatResponse{}, err
	}
	defer h.sessions.Retire(sessionID)

	sess.Append(domain.RoleUser, endSignal)

	callCtx, cancel := context.WithTimeout(ctx, h.cfg.LLMCallTimeout)
	defer cancel()

	event, err := h.mood.Infer(callCtx, sess)
	if err != nil {
		slog.Error("mood inference failed on explicit end",
			"session_id", sessionID,
			"user_id", sess.UserID,
			"error", err)
		return chatResponse{}, err
	}

	return chatResponse{
		End:      true,
		Status:   "success",
		Message:  "Received employee message",
		Response: event,
	}, nil
}
