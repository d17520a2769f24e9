package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/avashisth/buddy-backend/internal/domain"
)

const (
	defaultChatModel  = "gemini-2.5-flash"
	defaultEmbedModel = "gemini-embedding-001"
)

// GeminiClient implements Client on top of the Gemini API backend.
type GeminiClient struct {
	client     *genai.Client
	chatModel  string
	embedModel string
}

// NewGeminiClient creates a Client backed by the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey, chatModel, embedModel string) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if chatModel = strings.TrimSpace(chatModel); chatModel == "" {
		chatModel = defaultChatModel
	}
	if embedModel = strings.TrimSpace(embedModel); embedModel == "" {
		embedModel = defaultEmbedModel
	}

	return &GeminiClient{client: client, chatModel: chatModel, embedModel: embedModel}, nil
}

// Complete sends the message history to the chat model and returns the
// generated text. A leading system message becomes the system instruction.
func (g *GeminiClient) Complete(ctx context.Context, history []domain.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", errors.New("history must not be empty")
	}

	var cfg *genai.GenerateContentConfig
	turns := history
	if history[0].Role == domain.RoleSystem {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(history[0].Content, genai.RoleUser),
		}
		turns = history[1:]
	}

	var contents []*genai.Content
	for _, m := range turns {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	if len(contents) == 0 {
		return "", errors.New("history must contain at least one non-system message")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.chatModel, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", domain.ErrUpstreamUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: model returned empty response", domain.ErrUpstreamUnavailable)
	}

	return text, nil
}

// Embed returns one embedding vector per input text in a single batched call.
func (g *GeminiClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: embed content: %v", domain.ErrUpstreamUnavailable, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", domain.ErrUpstreamUnavailable, len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}
