package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
}

func TestGroqClientGenerate(t *testing.T) {
	body := `{"id":"cmpl-1","object":"chat.completion","choices":[` +
		`{"index":0,"message":{"role":"assistant","content":"  Machine learning is a field of AI.  "},"finish_reason":"stop"}]}`
	srv := completionServer(t, body, http.StatusOK)
	defer srv.Close()

	c := NewGroqClient("test-key", srv.URL)
	got, err := c.Generate(context.Background(), "What is machine learning?",
		Options{Model: "mixtral-8x7b-32768", MaxTokens: 400})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "Machine learning is a field of AI." {
		t.Errorf("unexpected completion %q", got)
	}
}

func TestGroqClientServerError(t *testing.T) {
	srv := completionServer(t, `{"error":{"message":"rate limit exceeded","type":"requests"}}`,
		http.StatusTooManyRequests)
	defer srv.Close()

	c := NewGroqClient("test-key", srv.URL)
	if _, err := c.Generate(context.Background(), "hello", Options{}); err == nil {
		t.Fatalf("expected error for rate-limited response")
	}
}

func TestGroqClientNoChoices(t *testing.T) {
	srv := completionServer(t, `{"id":"cmpl-2","object":"chat.completion","choices":[]}`, http.StatusOK)
	defer srv.Close()

	c := NewGroqClient("test-key", srv.URL)
	if _, err := c.Generate(context.Background(), "hello", Options{}); err == nil {
		t.Fatalf("expected error for a response without choices")
	}
}

func TestGroqClientHonorsContext(t *testing.T) {
	srv := completionServer(t, `{}`, http.StatusOK)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewGroqClient("test-key", srv.URL)
	_, err := c.Generate(ctx, "hello", Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider(Groq, Config{}); err == nil {
		t.Errorf("expected error without api key")
	}
	p, err := NewProvider(Groq, Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if p == nil {
		t.Fatalf("expected a provider")
	}
	if _, err := NewProvider(Anthropic, Config{APIKey: "k"}); err == nil {
		t.Errorf("expected not-implemented error for anthropic")
	}
	if _, err := NewProvider(Client("bogus"), Config{APIKey: "k"}); err == nil {
		t.Errorf("expected error for unknown provider")
	}
}
