package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/mohammad-safakhou/podbotnik/config"
	"github.com/mohammad-safakhou/podbotnik/internal/chatbot"
	"github.com/mohammad-safakhou/podbotnik/internal/source"
	"github.com/mohammad-safakhou/podbotnik/internal/store"
	"github.com/mohammad-safakhou/podbotnik/models"
	"github.com/mohammad-safakhou/podbotnik/provider"
)

var (
	labelColor  = color.New(color.FgGreen, color.Bold).SprintFunc()
	accentColor = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// newChatbot builds a chatbot from config and loads the transcript corpus
// from location (config location when empty). withLLM selects whether a
// generation provider is wired in; listing and search work without one.
func newChatbot(ctx context.Context, cfg *config.Config, location string, withLLM bool) (*chatbot.Chatbot, error) {
	var llm provider.Provider
	if withLLM {
		var err error
		llm, err = provider.NewProvider(provider.Groq, provider.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
		})
		if err != nil {
			return nil, err
		}
	}

	bot := chatbot.New(llm, chatbot.Config{
		Segments: store.SegmentConfig{
			ChunkWords:     cfg.Transcripts.ChunkWords,
			WordsPerSecond: cfg.Transcripts.WordsPerSecond,
		},
		Model:              cfg.LLM.Model,
		Temperature:        cfg.LLM.Temperature,
		MaxTokens:          cfg.LLM.MaxTokens,
		MaxContextSegments: cfg.Retrieval.MaxContextSegments,
		SearchResults:      cfg.Retrieval.SearchResults,
	}, nil)

	if location == "" {
		location = cfg.Transcripts.Location
	}
	rc, err := source.New().Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	if _, err := bot.LoadTranscripts(rc); err != nil {
		return nil, fmt.Errorf("loading transcripts: %w", err)
	}
	return bot, nil
}

// printAnswer renders an answer with its cited sources.
func printAnswer(ans models.Answer) {
	fmt.Printf("%s %s\n", labelColor("Answer:"), ans.Answer)
	if len(ans.Sources) == 0 {
		return
	}
	fmt.Printf("\n%s\n", labelColor("Sources:"))
	for i, src := range ans.Sources {
		fmt.Printf("  [%d] Episode #%d: %s @ %s\n", i+1, src.EpisodeNumber, accentColor(src.Episode), src.Timestamp)
		fmt.Printf("      %q\n", src.Segment)
		if src.VideoLink != "" {
			fmt.Printf("      video: %s\n", src.VideoLink)
		}
		if src.AudioLink != "" {
			fmt.Printf("      audio: %s\n", src.AudioLink)
		}
	}
}

func printEpisodes(eps []models.EpisodeInfo) {
	for _, ep := range eps {
		fmt.Printf("  #%3d | %s\n", ep.Number, ep.Title)
	}
}
