// Package store provides relational persistence for employee records and
// inferred emotion events.
package store

import (
	"context"

	"github.com/avashisth/buddy-backend/internal/domain"
)

// Repository defines the interface for the structured store.
type Repository interface {
	// InsertEmployee records a new employee with their generated summary.
	InsertEmployee(ctx context.Context, emp *domain.Employee) error

	// InsertEmotionEvent writes one inferred emotion event for a user.
	InsertEmotionEvent(ctx context.Context, event *domain.EmotionEvent) error

	// ListEmotionEvents returns the emotion events recorded for a user,
	// newest first.
	ListEmotionEvents(ctx context.Context, userID string) ([]*domain.EmotionEvent, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
