// Package api provides HTTP handlers for the buddy API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avashisth/buddy-backend/internal/config"
	"github.com/avashisth/buddy-backend/internal/docstore"
	"github.com/avashisth/buddy-backend/internal/domain"
	"github.com/avashisth/buddy-backend/internal/jobs"
	"github.com/avashisth/buddy-backend/internal/llm"
	"github.com/avashisth/buddy-backend/internal/mood"
	"github.com/avashisth/buddy-backend/internal/resume"
	"github.com/avashisth/buddy-backend/internal/session"
	"github.com/avashisth/buddy-backend/internal/store"
	"github.com/go-chi/chi/v5"
)

// Handler provides common handler utilities and dependencies.
type Handler struct {
	sessions *session.Manager
	llm      llm.Client
	repo     store.Repository
	docs     docstore.Store
	ranker   *jobs.Ranker
	mood     *mood.Workflow
	tailor   *resume.Tailor
	cfg      *config.Config
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(sessions *session.Manager, client llm.Client, repo store.Repository, docs docstore.Store, ranker *jobs.Ranker, moodWF *mood.Workflow, tailor *resume.Tailor, cfg *config.Config) *Handler {
	return &Handler{
		sessions: sessions,
		llm:      client,
		repo:     repo,
		docs:     docs,
		ranker:   ranker,
		mood:     moodWF,
		tailor:   tailor,
		cfg:      cfg,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/employee-chat/{id}", h.EmployeeChat)
	r.Post("/login", h.Login)
	r.Post("/profile/{id}", h.UpsertProfile)
	r.Post("/suggest_edits/{id}", h.SuggestEdits)
	r.Get("/recommended_jobs/{id}", h.RecommendedJobs)
	r.Get("/emotions/{id}", h.Emotions)
	r.Get("/conversations/{id}", h.Conversations)
	r.Get("/ws/chat", h.ServeWS)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// errEndBeforeStart rejects an end signal that references no session.
var errEndBeforeStart = errors.New("cannot end a session that has not started")

// writeDomainError maps domain sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errEndBeforeStart):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrProfileNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSessionRetired):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrMalformedInferenceResult),
		errors.Is(err, domain.ErrContractViolation),
		errors.Is(err, domain.ErrUpstreamUnavailable):
		Error(w, http.StatusBadGateway, err.Error())
	default:
		Error(w, http.StatusInternalServerError, err.Error())
	}
}
