// Package transcribe turns audio recordings into transcript corpus entries
// using a Whisper-compatible speech-to-text API.
package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mohammad-safakhou/podbotnik/models"
)

// transcriptionAPI is the slice of the speech-to-text client used here.
type transcriptionAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Config selects the speech-to-text service.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Transcriber runs speech-to-text against an OpenAI-compatible audio
// endpoint.
type Transcriber struct {
	api    transcriptionAPI
	model  string
	logger *log.Logger
}

// New creates a transcriber. BaseURL may be empty for the default OpenAI
// endpoint; Model defaults to whisper-1.
func New(cfg Config, logger *log.Logger) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("transcription api key not set")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[TRANSCRIBE] ", log.LstdFlags)
	}
	return &Transcriber{
		api:    openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger,
	}, nil
}

// Transcribe runs speech-to-text on the audio file and returns the trimmed
// transcript text.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("audio file: %w", err)
	}

	t.logger.Printf("transcribing %s with %s", audioPath, t.model)
	resp, err := t.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errors.New("transcription returned no text")
	}
	return text, nil
}

// AppendEpisode appends an episode entry to the corpus file at path,
// creating the file when absent. A repeated id is rejected with
// models.ErrDuplicateEpisode. An episode number of 0 is replaced with the
// next number after the highest one present.
func AppendEpisode(path string, ep models.Episode) error {
	if strings.TrimSpace(ep.ID) == "" || strings.TrimSpace(ep.Title) == "" || strings.TrimSpace(ep.Transcript) == "" {
		return errors.New("episode id, title and transcript are required")
	}

	var episodes []models.Episode
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &episodes); err != nil {
			return fmt.Errorf("reading corpus %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// starting a fresh corpus
	default:
		return fmt.Errorf("reading corpus %s: %w", path, err)
	}

	maxNumber := 0
	for _, existing := range episodes {
		if existing.ID == ep.ID {
			return models.ErrDuplicateEpisode{ID: ep.ID}
		}
		if existing.Number > maxNumber {
			maxNumber = existing.Number
		}
	}
	if ep.Number == 0 {
		ep.Number = maxNumber + 1
	}
	episodes = append(episodes, ep)

	out, err := json.MarshalIndent(episodes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding corpus: %w", err)
	}
	return os.WriteFile(path, append(out, '\n'), 0o644)
}

// NewEpisodeID returns a fresh identifier for recordings submitted without
// one.
func NewEpisodeID() string {
	return "ep-" + uuid.NewString()[:8]
}
