// Package jobs retrieves external job postings and ranks them for an
// employee by accommodation feasibility and embedding similarity.
package jobs

import (
	"context"

	"github.com/avashisth/buddy-backend/internal/domain"
)

// Source retrieves job postings for a (title, location) pair.
type Source interface {
	Search(ctx context.Context, title, location string) ([]domain.Listing, error)
}
