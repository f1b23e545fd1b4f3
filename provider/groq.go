package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"
	// GroqDefaultModel is used when a call does not name a model.
	GroqDefaultModel = "mixtral-8x7b-32768"
)

// GroqClient implements Provider against Groq's OpenAI-compatible chat API.
type GroqClient struct {
	client *openai.Client
}

// Compile-time check that GroqClient implements Provider.
var _ Provider = (*GroqClient)(nil)

// NewGroqClient creates a chat-completion client. An empty baseURL selects
// the Groq endpoint; any OpenAI-compatible URL may be given instead.
func NewGroqClient(apiKey, baseURL string) *GroqClient {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	clientConfig.BaseURL = baseURL
	return &GroqClient{client: openai.NewClientWithConfig(clientConfig)}
}

// Generate sends the prompt as a single user message and returns the trimmed
// completion text.
func (c *GroqClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = GroqDefaultModel
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
