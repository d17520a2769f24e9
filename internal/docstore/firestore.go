package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/avashisth/buddy-backend/internal/domain"
)

const (
	profilesCollection      = "profiles"
	conversationsCollection = "conversations"
)

// FirestoreStore implements Store on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestore creates a Firestore-backed document store.
func NewFirestore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for the document store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) profileDoc(id string) *firestore.DocumentRef {
	return s.client.Collection(profilesCollection).Doc(id)
}

func (s *FirestoreStore) conversationDoc(sessionID string) *firestore.DocumentRef {
	return s.client.Collection(conversationsCollection).Doc(sessionID)
}

type conversationDoc struct {
	SessionID    string       `firestore:"session_id"`
	UserID       string       `firestore:"user_id"`
	Role         string       `firestore:"role"`
	IsActive     bool         `firestore:"is_active"`
	CreatedAt    time.Time    `firestore:"created_at"`
	LastActivity time.Time    `firestore:"last_activity"`
	Messages     []messageDoc `firestore:"messages"`
}

type messageDoc struct {
	Role    string `firestore:"role"`
	Content string `firestore:"content"`
}

// GetProfile reads the profile for an employee id.
func (s *FirestoreStore) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	snap, err := s.profileDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: id %s", domain.ErrProfileNotFound, id)
		}
		return nil, fmt.Errorf("%w: firestore GetProfile: %v", domain.ErrUpstreamUnavailable, err)
	}

	var profile domain.Profile
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("%w: firestore GetProfile decode: %v", domain.ErrUpstreamUnavailable, err)
	}
	profile.ID = id

	return &profile, nil
}

// UpsertProfile creates or replaces a profile document.
func (s *FirestoreStore) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	profile.UpdatedAt = time.Now()

	if _, err := s.profileDoc(profile.ID).Set(ctx, profile); err != nil {
		return fmt.Errorf("%w: firestore UpsertProfile: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}

// UpsertConversation persists an ended session keyed by session id.
func (s *FirestoreStore) UpsertConversation(ctx context.Context, sess *domain.Session) error {
	doc := conversationDoc{
		SessionID:    sess.SessionID,
		UserID:       sess.UserID,
		Role:         sess.Role,
		IsActive:     sess.IsActive(),
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
		Messages:     make([]messageDoc, 0, len(sess.Messages)),
	}
	for _, m := range sess.Messages {
		doc.Messages = append(doc.Messages, messageDoc{Role: m.Role, Content: m.Content})
	}

	if _, err := s.conversationDoc(sess.SessionID).Set(ctx, doc); err != nil {
		return fmt.Errorf("%w: firestore UpsertConversation: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}

// ListConversations returns a user's persisted sessions, newest first.
func (s *FirestoreStore) ListConversations(ctx context.Context, userID string, limit int) ([]*domain.Session, error) {
	q := s.client.Collection(conversationsCollection).
		Where("user_id", "==", userID).
		OrderBy("last_activity", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Session
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("%w: firestore ListConversations: %v", domain.ErrUpstreamUnavailable, err)
		}

		var doc conversationDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode conversationDoc: %v", domain.ErrUpstreamUnavailable, err)
		}

		sess := &domain.Session{
			SessionID:    doc.SessionID,
			UserID:       doc.UserID,
			Role:         doc.Role,
			State:        domain.SessionRetired,
			CreatedAt:    doc.CreatedAt,
			LastActivity: doc.LastActivity,
		}
		for _, m := range doc.Messages {
			sess.Append(m.Role, m.Content)
		}
		out = append(out, sess)
	}
	return out, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
