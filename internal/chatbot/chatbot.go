// Package chatbot answers questions about podcast episodes: it retrieves the
// most relevant transcript segments, asks the language model for an answer
// grounded in them, and attaches timestamped source links.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mohammad-safakhou/podbotnik/internal/index"
	"github.com/mohammad-safakhou/podbotnik/internal/store"
	"github.com/mohammad-safakhou/podbotnik/models"
	"github.com/mohammad-safakhou/podbotnik/provider"
)

// Config tunes retrieval and generation.
type Config struct {
	Segments           store.SegmentConfig
	Model              string
	Temperature        float64
	MaxTokens          int
	MaxContextSegments int
	SearchResults      int
}

// DefaultConfig returns the standard chatbot settings.
func DefaultConfig() Config {
	return Config{
		Segments:           store.DefaultSegmentConfig(),
		Model:              provider.GroqDefaultModel,
		Temperature:        0.7,
		MaxTokens:          400,
		MaxContextSegments: 3,
		SearchResults:      5,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = def.MaxTokens
	}
	if c.MaxContextSegments <= 0 {
		c.MaxContextSegments = def.MaxContextSegments
	}
	if c.SearchResults <= 0 {
		c.SearchResults = def.SearchResults
	}
	return c
}

// state is one consistent {snapshot, index} pair. Rebuilds swap the whole
// pair so a reader never sees a new snapshot with an old index or a rebuild
// in progress.
type state struct {
	snap *store.Snapshot
	idx  *index.Index
}

// Chatbot composes the transcript store, the lexical index and the language
// model provider. Safe for concurrent use: reads work on an immutable pair,
// rebuilds are serialized.
type Chatbot struct {
	provider provider.Provider
	cfg      Config
	logger   *log.Logger
	store    *store.Store

	mu    sync.RWMutex
	state state
}

// SearchResult is one raw retrieval hit, for search surfaces that bypass
// answer generation.
type SearchResult struct {
	Episode       string  `json:"episode"`
	EpisodeNumber int     `json:"episode_number"`
	Timestamp     string  `json:"timestamp"`
	Segment       string  `json:"segment"`
	Score         float64 `json:"score"`
}

// New creates a chatbot with an empty corpus.
func New(p provider.Provider, cfg Config, logger *log.Logger) *Chatbot {
	if logger == nil {
		logger = log.New(log.Writer(), "[CHATBOT] ", log.LstdFlags)
	}
	cfg = cfg.normalized()
	st := store.New(cfg.Segments)
	return &Chatbot{
		provider: p,
		cfg:      cfg,
		logger:   logger,
		store:    st,
		state:    state{snap: st.Snapshot(), idx: index.Build(nil)},
	}
}

// LoadTranscripts replaces the corpus with the episodes decoded from r and
// rebuilds the index. On failure the previous corpus keeps serving. Returns
// the number of loaded episodes.
func (c *Chatbot) LoadTranscripts(r io.Reader) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.store.Load(r)
	if err != nil {
		return 0, err
	}
	c.state = state{snap: snap, idx: index.Build(snap.Segments())}
	c.logger.Printf("loaded %d episodes (%d segments)", snap.EpisodeCount(), snap.SegmentCount())
	return snap.EpisodeCount(), nil
}

// LoadTranscriptFile loads the corpus from a local JSON file.
func (c *Chatbot) LoadTranscriptFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening transcripts: %w", err)
	}
	defer f.Close()
	return c.LoadTranscripts(f)
}

// AddEpisode inserts one episode and rebuilds the index. A repeated id is
// rejected with models.ErrDuplicateEpisode and nothing changes.
func (c *Chatbot) AddEpisode(ep models.Episode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.store.AddEpisode(ep)
	if err != nil {
		return err
	}
	c.state = state{snap: snap, idx: index.Build(snap.Segments())}
	return nil
}

func (c *Chatbot) current() state {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// AnswerQuestion runs the full pipeline: retrieve up to maxContextSegments
// segments (0 selects the configured default), generate an answer grounded
// in them, and build a citation per segment used. When retrieval comes back
// empty the model is not called at all and a fixed no-information answer is
// returned instead, with zero sources.
func (c *Chatbot) AnswerQuestion(ctx context.Context, question string, maxContextSegments int) (models.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return models.Answer{}, models.ErrInvalidQuestion
	}
	if maxContextSegments <= 0 {
		maxContextSegments = c.cfg.MaxContextSegments
	}

	st := c.current()
	hits := st.idx.Search(question, index.DefaultFields, maxContextSegments)
	if len(hits) == 0 {
		return models.Answer{
			Answer:      noContextAnswer,
			Sources:     []models.Citation{},
			ContextUsed: 0,
		}, nil
	}

	text, err := c.provider.Generate(ctx, buildPrompt(question, hits), provider.Options{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Answer{}, fmt.Errorf("%w: %v", models.ErrGenerationTimeout, err)
		}
		return models.Answer{}, models.ErrGeneration{Err: err}
	}

	sources := make([]models.Citation, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, citation(hit.Segment))
	}
	return models.Answer{Answer: text, Sources: sources, ContextUsed: len(hits)}, nil
}

// Search returns raw retrieval hits for a query; 0 selects the configured
// default depth. An unmatched or empty query yields an empty result.
func (c *Chatbot) Search(query string, maxResults int) []SearchResult {
	if maxResults <= 0 {
		maxResults = c.cfg.SearchResults
	}
	hits := c.current().idx.Search(query, index.DefaultFields, maxResults)
	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SearchResult{
			Episode:       hit.Segment.EpisodeTitle,
			EpisodeNumber: hit.Segment.EpisodeNumber,
			Timestamp:     FormatTimestamp(hit.Segment.StartSeconds),
			Segment:       excerpt(hit.Segment.Text),
			Score:         hit.Score,
		})
	}
	return results
}

// ListEpisodes returns the loaded episodes as number/title pairs, ordered by
// episode number ascending.
func (c *Chatbot) ListEpisodes() []models.EpisodeInfo {
	return c.current().snap.ListEpisodes()
}

// EpisodeCount returns the number of loaded episodes.
func (c *Chatbot) EpisodeCount() int { return c.current().snap.EpisodeCount() }

// SegmentCount returns the number of indexed segments.
func (c *Chatbot) SegmentCount() int { return c.current().snap.SegmentCount() }

func citation(seg models.Segment) models.Citation {
	return models.Citation{
		Episode:       seg.EpisodeTitle,
		EpisodeNumber: seg.EpisodeNumber,
		Timestamp:     FormatTimestamp(seg.StartSeconds),
		Segment:       excerpt(seg.Text),
		VideoLink:     TimestampLink(seg.VideoURL, seg.StartSeconds),
		AudioLink:     TimestampLink(seg.AudioURL, seg.StartSeconds),
	}
}
