// Package resume tailors employee profiles to job descriptions and renders
// them into shareable documents.
package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avashisth/buddy-backend/internal/domain"
	"github.com/avashisth/buddy-backend/internal/llm"
)

// Tailor rewrites a profile's summary, skills and experience bullet points
// for a specific job description. One completion call per request; any
// deviation from the expected reply shape fails the whole request.
type Tailor struct {
	llm llm.Client
}

func NewTailor(client llm.Client) *Tailor {
	return &Tailor{llm: client}
}

type tailorResult struct {
	Summary        string     `json:"summary"`
	Skills         []string   `json:"skills"`
	WorkExperience [][]string `json:"work_experience"`
}

// TailorProfile returns a copy of the profile with the summary, skills and
// per-job bullet points rewritten against the job description. The input
// profile is never mutated.
func (t *Tailor) TailorProfile(ctx context.Context, p *domain.Profile, jobDescription string) (*domain.Profile, error) {
	prompt := []domain.ChatMessage{{
		Role:    domain.RoleUser,
		Content: llm.TailorPrompt(jobDescription, p),
	}}

	raw, err := t.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("tailor completion: %w", err)
	}

	res, err := parseTailorResult(raw)
	if err != nil {
		return nil, err
	}
	if len(res.WorkExperience) != len(p.WorkExperience) {
		return nil, fmt.Errorf("%w: got points for %d jobs, profile has %d",
			domain.ErrContractViolation, len(res.WorkExperience), len(p.WorkExperience))
	}

	out := *p
	out.Summary = res.Summary
	out.Skills = append([]string(nil), res.Skills...)
	out.WorkExperience = make([]domain.WorkExperience, len(p.WorkExperience))
	for i, job := range p.WorkExperience {
		job.Points = append([]string(nil), res.WorkExperience[i]...)
		out.WorkExperience[i] = job
	}
	return &out, nil
}

func parseTailorResult(raw string) (*tailorResult, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(llm.StripFences(raw))))
	dec.DisallowUnknownFields()

	var res tailorResult
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: tailor result: %v", domain.ErrMalformedInferenceResult, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing content after tailor result", domain.ErrMalformedInferenceResult)
	}
	if strings.TrimSpace(res.Summary) == "" || len(res.Skills) == 0 {
		return nil, fmt.Errorf("%w: tailor result missing summary or skills", domain.ErrMalformedInferenceResult)
	}
	return &res, nil
}
