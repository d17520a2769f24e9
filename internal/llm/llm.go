// Package llm wraps the completion service used for chat replies, mood
// inference, summaries and embeddings.
package llm

import (
	"context"

	"github.com/avashisth/buddy-backend/internal/domain"
)

// Client is the narrow contract the core consumes from the language model.
type Client interface {
	// Complete sends the ordered message history and returns the generated
	// text.
	Complete(ctx context.Context, history []domain.ChatMessage) (string, error)

	// Embed returns one vector per input text, batched into a single call.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
