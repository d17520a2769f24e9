// Package docstore provides document persistence for employee profiles and
// conversation records.
package docstore

import (
	"context"

	"github.com/avashisth/buddy-backend/internal/domain"
)

// Store is the contract the core consumes from the document database.
type Store interface {
	// GetProfile reads the profile for an employee id. A missing document
	// fails with domain.ErrProfileNotFound.
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)

	// UpsertProfile creates or replaces a profile document.
	UpsertProfile(ctx context.Context, profile *domain.Profile) error

	// UpsertConversation persists an ended session keyed by session id.
	UpsertConversation(ctx context.Context, sess *domain.Session) error

	// ListConversations returns a user's persisted sessions, newest first.
	ListConversations(ctx context.Context, userID string, limit int) ([]*domain.Session, error)

	// Close releases the underlying client.
	Close() error
}
