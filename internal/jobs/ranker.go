package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/avashisth/buddy-backend/internal/domain"
	"github.com/avashisth/buddy-backend/internal/llm"
)

// SentinelScore is assigned to postings rejected by the accommodation
// filter. It is below every representable dot product, so rejected postings
// always sort last.
var SentinelScore = math.Inf(-1)

// Ranker fetches postings, filters them by accommodation feasibility and
// orders them by embedding similarity with the user's resume summary.
type Ranker struct {
	source Source
	llm    llm.Client
}

// NewRanker wires the job relevance ranker.
func NewRanker(source Source, client llm.Client) *Ranker {
	return &Ranker{source: source, llm: client}
}

// Rank returns the postings for (title, location) sorted by relevance,
// descending. Ties keep the source order. A failure at any step aborts the
// whole call; there is no partial result.
func (r *Ranker) Rank(ctx context.Context, summary, title, location, disability string) ([]domain.Listing, error) {
	listings, err := r.source.Search(ctx, title, location)
	if err != nil {
		return nil, fmt.Errorf("fetch postings: %w", err)
	}
	if len(listings) == 0 {
		return []domain.Listing{}, nil
	}

	descriptions := make([]string, len(listings))
	for i := range listings {
		descriptions[i] = listings[i].DescriptionText()
	}

	postingVecs, err := r.llm.Embed(ctx, descriptions)
	if err != nil {
		return nil, fmt.Errorf("embed postings: %w", err)
	}
	if len(postingVecs) != len(listings) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d postings", domain.ErrContractViolation, len(postingVecs), len(listings))
	}

	summaryVecs, err := r.llm.Embed(ctx, []string{summary})
	if err != nil {
		return nil, fmt.Errorf("embed summary: %w", err)
	}

	accepted, err := r.feasibleIndices(ctx, disability, descriptions)
	if err != nil {
		return nil, err
	}

	for i := range listings {
		if !accepted[i] {
			listings[i].Score = SentinelScore
			continue
		}
		score, err := dot(postingVecs[i], summaryVecs[0])
		if err != nil {
			return nil, err
		}
		listings[i].Score = score
	}

	sort.SliceStable(listings, func(a, b int) bool {
		return listings[a].Score > listings[b].Score
	})

	return listings, nil
}

// feasibleIndices asks the model which postings the user could perform with
// reasonable accommodation and returns the accepted index set. The reply
// must be a bare JSON array of in-range integers; anything else fails loudly.
func (r *Ranker) feasibleIndices(ctx context.Context, disability string, descriptions []string) (map[int]bool, error) {
	prompt := []domain.ChatMessage{{
		Role:    domain.RoleUser,
		Content: llm.FeasibilityPrompt(disability, descriptions),
	}}

	raw, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("feasibility completion: %w", err)
	}

	indices, err := parseIndexList(raw)
	if err != nil {
		return nil, err
	}

	accepted := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(descriptions) {
			return nil, fmt.Errorf("%w: index %d out of range for %d postings", domain.ErrContractViolation, idx, len(descriptions))
		}
		accepted[idx] = true
	}
	return accepted, nil
}

func parseIndexList(raw string) ([]int, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(llm.StripFences(raw))))

	var indices []int
	if err := dec.Decode(&indices); err != nil {
		return nil, fmt.Errorf("%w: index list: %v", domain.ErrMalformedInferenceResult, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing content after index list", domain.ErrMalformedInferenceResult)
	}
	return indices, nil
}

// dot computes the similarity score for one posting. The embedding service
// must return vectors of one dimensionality; a mismatch is an upstream
// contract violation, not something to truncate around.
func dot(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: embedding lengths differ (%d vs %d)", domain.ErrContractViolation, len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum, nil
}
