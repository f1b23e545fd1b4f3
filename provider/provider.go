package provider

import (
	"context"
	"errors"
)

// Client represents different LLM providers
type Client string

const (
	Groq      Client = "groq"
	Anthropic Client = "anthropic"
	Gemini    Client = "gemini"
)

// Options controls a single generation call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider is the interface that all LLM implementations must satisfy.
// Generate returns the completion text for a prompt; implementations honor
// ctx cancellation and return transport or quota failures as plain errors
// for the caller to classify.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Config carries the transport settings for a provider.
type Config struct {
	APIKey  string
	BaseURL string
}

// NewProvider creates a new LLM client based on the provided configuration.
// Any OpenAI-compatible endpoint works through the groq client by overriding
// Config.BaseURL.
func NewProvider(client Client, cfg Config) (Provider, error) {
	switch client {
	case Groq:
		if cfg.APIKey == "" {
			return nil, errors.New("groq api key not set")
		}
		return NewGroqClient(cfg.APIKey, cfg.BaseURL), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	case Gemini:
		return nil, errors.New("gemini client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
