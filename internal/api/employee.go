package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avashisth/buddy-backend/internal/domain"
	"github.com/avashisth/buddy-backend/internal/llm"
	"github.com/avashisth/buddy-backend/internal/resume"
	"github.com/go-chi/chi/v5"
)

// Login registers a new employee. Skills and work history are summarized
// once, at signup, so the job ranker never has to do it per request.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var emp domain.Employee
	if err := json.NewDecoder(r.Body).Decode(&emp); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(emp.Name) == "" {
		Error(w, http.StatusBadRequest, "Name cannot be empty")
		return
	}

	callCtx, cancel := context.WithTimeout(r.Context(), h.cfg.LLMCallTimeout)
	defer cancel()

	summary, err := h.llm.Complete(callCtx, []domain.ChatMessage{{
		Role:    domain.RoleUser,
		Content: llm.EmployeeSummaryPrompt(emp.Skills, emp.WorkHistory),
	}})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	emp.Summary = summary
	emp.CreatedAt = time.Now()

	if err := h.repo.InsertEmployee(r.Context(), &emp); err != nil {
		slog.Error("failed to insert employee", "name", emp.Name, "error", err)
		Error(w, http.StatusInternalServerError, "failed to store employee")
		return
	}

	slog.Info("employee registered", "id", emp.ID, "name", emp.Name)
	JSON(w, http.StatusCreated, map[string]any{"data": emp})
}

// UpsertProfile stores the employee's profile document. A short resume
// summary is generated from the submitted skills and experience before the
// write.
func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = id
	if len(p.Skills) == 0 && len(p.WorkExperience) == 0 {
		Error(w, http.StatusBadRequest, "profile needs skills or work experience")
		return
	}

	callCtx, cancel := context.WithTimeout(r.Context(), h.cfg.LLMCallTimeout)
	defer cancel()

	summary, err := h.llm.Complete(callCtx, []domain.ChatMessage{{
		Role:    domain.RoleUser,
		Content: llm.ResumeSummaryPrompt(&p),
	}})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p.Summary = summary
	p.UpdatedAt = time.Now()

	if err := h.docs.UpsertProfile(r.Context(), &p); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("profile upserted", "id", id)
	JSON(w, http.StatusCreated, map[string]string{"status": "success"})
}

type suggestEditsRequest struct {
	JD string `json:"jd"`
}

// SuggestEdits tailors the stored profile to a job description, updates the
// profile document, and writes a tailored resume file.
func (h *Handler) SuggestEdits(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	jd := r.URL.Query().Get("jd")
	if jd == "" && r.Body != nil {
		var req suggestEditsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			jd = req.JD
		}
	}
	if strings.TrimSpace(jd) == "" {
		Error(w, http.StatusBadRequest, "jd cannot be empty")
		return
	}

	profile, err := h.docs.GetProfile(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	callCtx, cancel := context.WithTimeout(r.Context(), h.cfg.LLMCallTimeout)
	defer cancel()

	tailored, err := h.tailor.TailorProfile(callCtx, profile, jd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	tailored.UpdatedAt = time.Now()

	if err := h.docs.UpsertProfile(r.Context(), tailored); err != nil {
		writeDomainError(w, err)
		return
	}

	path, err := resume.WriteFile(h.cfg.ResumeOutputDir, tailored)
	if err != nil {
		// The tailored profile is already stored; a failed file write
		// should not fail the request.
		slog.Warn("failed to write tailored resume", "id", id, "error", err)
	} else {
		slog.Info("tailored resume written", "id", id, "path", path)
	}

	JSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// RecommendedJobs ranks current postings against the employee's profile.
// Title and location come from query params, falling back to the profile's
// occupation and the configured default location.
func (h *Handler) RecommendedJobs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := h.docs.GetProfile(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		title = profile.CurrentOccupation
	}
	location := r.URL.Query().Get("location")
	if location == "" {
		location = h.cfg.DefaultJobLocation
	}
	summary := profile.Summary
	if summary == "" {
		summary = profile.Context()
	}

	listings, err := h.ranker.Rank(r.Context(), summary, title, location, profile.Disability)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]any{"data": listings})
}

// Emotions lists the stored emotion events for an employee, newest first.
func (h *Handler) Emotions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	events, err := h.repo.ListEmotionEvents(r.Context(), id)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list emotion events")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"data": events})
}

// Conversations lists the most recent stored conversations for an employee.
func (h *Handler) Conversations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sessions, err := h.docs.ListConversations(r.Context(), id, 20)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"data": sessions})
}
