package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/podbotnik/models"
	"github.com/mohammad-safakhou/podbotnik/provider"
)

// stubProvider records calls and returns a canned completion.
type stubProvider struct {
	response   string
	err        error
	calls      int
	lastPrompt string
	lastOpts   provider.Options
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts provider.Options) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastOpts = opts
	if s.err != nil {
		return "", s.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.response, nil
}

const fourEpisodeCorpus = `[
  {
    "episode_id": "ep-001",
    "episode_title": "Introduction to Machine Learning",
    "episode_number": 1,
    "transcript": "Welcome to the show. Today we are talking about machine learning and why it matters. Machine learning is the practice of teaching computers to find patterns in data instead of programming every rule by hand. A model trains on examples, measures its own mistakes, and adjusts until its predictions improve. Supervised learning uses labeled examples, unsupervised learning hunts for structure on its own, and reinforcement learning rewards good decisions. If you remember one thing from this episode, remember that machine learning is pattern recognition powered by data, evaluation, and iteration. Next week we dig into neural networks.",
    "video_url": "https://youtube.com/watch?v=ml101",
    "audio_url": "https://open.spotify.com/episode/mlintro"
  },
  {
    "episode_id": "ep-002",
    "episode_title": "Databases Deep Dive",
    "episode_number": 2,
    "transcript": "Welcome back to the show. This episode is a deep dive into databases. We compare relational tables with document stores, explain how indexes trade write speed for read speed, and walk through transactions that keep concurrent writers from corrupting state. We close with practical advice on schema migrations, connection pooling, and why you should measure query plans before reaching for a cache."
  },
  {
    "episode_id": "ep-003",
    "episode_title": "Building for the Web",
    "episode_number": 3,
    "transcript": "On today's show we build for the web. We start with HTTP basics, then layer on routing, middleware, and templates. A good web service keeps handlers small, pushes business logic into packages you can test, and treats deployment as a boring, repeatable step. We also share war stories about debugging production outages at two in the morning.",
    "video_url": "https://youtu.be/web303"
  },
  {
    "episode_id": "ep-004",
    "episode_title": "Cloud Infrastructure Basics",
    "episode_number": 4,
    "transcript": "Welcome to the show, cloud edition. Today we cover cloud infrastructure from the ground up: virtual machines, managed databases, object storage buckets, and the queues that glue services together. We explain how infrastructure as code makes environments reproducible, why monitoring and alerting come before scaling, and how to keep your bill under control with budgets and autoscaling limits. Finally we answer listener questions about multi region failover and disaster recovery drills.",
    "audio_url": "https://example.com/podcast/cloud.mp3"
  }
]`

func loadedChatbot(t *testing.T, p provider.Provider) *Chatbot {
	t.Helper()
	bot := New(p, DefaultConfig(), nil)
	if _, err := bot.LoadTranscripts(strings.NewReader(fourEpisodeCorpus)); err != nil {
		t.Fatalf("load transcripts: %v", err)
	}
	return bot
}

func TestAnswerQuestionEndToEnd(t *testing.T) {
	stub := &stubProvider{response: "Machine learning teaches computers to find patterns in data."}
	bot := loadedChatbot(t, stub)

	ans, err := bot.AnswerQuestion(context.Background(), "What is machine learning?", 0)
	if err != nil {
		t.Fatalf("answer question: %v", err)
	}
	if ans.ContextUsed < 1 {
		t.Fatalf("expected at least one context segment, got %d", ans.ContextUsed)
	}
	if ans.Answer != stub.response {
		t.Errorf("unexpected answer %q", ans.Answer)
	}
	if len(ans.Sources) != ans.ContextUsed {
		t.Errorf("sources (%d) must match context_used (%d)", len(ans.Sources), ans.ContextUsed)
	}

	var fromFirst bool
	for _, src := range ans.Sources {
		if src.EpisodeNumber == 1 {
			fromFirst = true
		}
	}
	if !fromFirst {
		t.Errorf("expected a citation from episode 1, got %+v", ans.Sources)
	}

	if stub.calls != 1 {
		t.Errorf("expected exactly one generation call, got %d", stub.calls)
	}
	if !strings.Contains(stub.lastPrompt, "What is machine learning?") {
		t.Errorf("prompt must contain the question:\n%s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "[Episode: ") {
		t.Errorf("prompt must contain tagged context:\n%s", stub.lastPrompt)
	}
	if stub.lastOpts.Model != provider.GroqDefaultModel {
		t.Errorf("unexpected model %q", stub.lastOpts.Model)
	}
}

func TestAnswerQuestionCitations(t *testing.T) {
	stub := &stubProvider{response: "ok"}
	bot := loadedChatbot(t, stub)

	ans, err := bot.AnswerQuestion(context.Background(), "machine learning patterns", 1)
	if err != nil {
		t.Fatalf("answer question: %v", err)
	}
	if len(ans.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(ans.Sources))
	}

	src := ans.Sources[0]
	if src.Episode != "Introduction to Machine Learning" || src.EpisodeNumber != 1 {
		t.Errorf("unexpected source episode: %+v", src)
	}
	if len(src.Timestamp) != 5 || src.Timestamp[2] != ':' {
		t.Errorf("timestamp not MM:SS: %q", src.Timestamp)
	}
	if !strings.Contains(src.VideoLink, "watch?v=ml101&t=") {
		t.Errorf("video link missing offset parameter: %q", src.VideoLink)
	}
	if !strings.Contains(src.AudioLink, "#t=") {
		t.Errorf("audio link missing offset fragment: %q", src.AudioLink)
	}
	if got := len([]rune(src.Segment)); got > excerptRunes+3 {
		t.Errorf("excerpt too long: %d runes", got)
	}
}

func TestAnswerQuestionLinksOmittedWithoutURLs(t *testing.T) {
	stub := &stubProvider{response: "ok"}
	bot := loadedChatbot(t, stub)

	// Episode 2 has neither video nor audio URL.
	ans, err := bot.AnswerQuestion(context.Background(), "relational tables document stores", 1)
	if err != nil {
		t.Fatalf("answer question: %v", err)
	}
	if len(ans.Sources) != 1 || ans.Sources[0].EpisodeNumber != 2 {
		t.Fatalf("expected a single episode 2 source, got %+v", ans.Sources)
	}
	if ans.Sources[0].VideoLink != "" || ans.Sources[0].AudioLink != "" {
		t.Errorf("links must stay empty without URLs: %+v", ans.Sources[0])
	}
}

func TestAnswerQuestionNoContext(t *testing.T) {
	stub := &stubProvider{response: "should never be used"}
	bot := loadedChatbot(t, stub)

	ans, err := bot.AnswerQuestion(context.Background(), "quasar nebula xylophone", 3)
	if err != nil {
		t.Fatalf("answer question: %v", err)
	}
	if ans.ContextUsed != 0 {
		t.Errorf("expected context_used 0, got %d", ans.ContextUsed)
	}
	if ans.Sources == nil || len(ans.Sources) != 0 {
		t.Errorf("expected empty (non-nil) sources, got %#v", ans.Sources)
	}
	if ans.Answer != noContextAnswer {
		t.Errorf("unexpected no-context answer %q", ans.Answer)
	}
	if stub.calls != 0 {
		t.Errorf("model must not be called without context, got %d calls", stub.calls)
	}
}

func TestAnswerQuestionInvalid(t *testing.T) {
	stub := &stubProvider{response: "ok"}
	bot := loadedChatbot(t, stub)

	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := bot.AnswerQuestion(context.Background(), q, 3); !errors.Is(err, models.ErrInvalidQuestion) {
			t.Errorf("question %q: expected ErrInvalidQuestion, got %v", q, err)
		}
	}
	if stub.calls != 0 {
		t.Errorf("model must not be called for invalid questions")
	}
}

func TestAnswerQuestionProviderFailure(t *testing.T) {
	stub := &stubProvider{err: errors.New("quota exhausted")}
	bot := loadedChatbot(t, stub)

	_, err := bot.AnswerQuestion(context.Background(), "machine learning", 3)
	var genErr models.ErrGeneration
	if !errors.As(err, &genErr) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if genErr.Err == nil || !strings.Contains(genErr.Err.Error(), "quota") {
		t.Errorf("expected wrapped cause, got %v", genErr.Err)
	}
}

func TestAnswerQuestionTimeout(t *testing.T) {
	stub := &stubProvider{response: "too late"}
	bot := loadedChatbot(t, stub)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := bot.AnswerQuestion(ctx, "machine learning", 3)
	if !errors.Is(err, models.ErrGenerationTimeout) {
		t.Fatalf("expected ErrGenerationTimeout, got %v", err)
	}
}

func TestAnswerQuestionDefaultDepth(t *testing.T) {
	stub := &stubProvider{response: "ok"}
	bot := loadedChatbot(t, stub)

	// "show" appears in the opening chunk of all four episodes, so the
	// configured default depth of 3 is the binding limit.
	ans, err := bot.AnswerQuestion(context.Background(), "show", 0)
	if err != nil {
		t.Fatalf("answer question: %v", err)
	}
	if ans.ContextUsed != 3 {
		t.Errorf("expected default depth 3, got %d", ans.ContextUsed)
	}
}

func TestSearch(t *testing.T) {
	stub := &stubProvider{}
	bot := loadedChatbot(t, stub)

	results := bot.Search("databases", 0)
	if len(results) == 0 {
		t.Fatalf("expected search hits")
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not descending at %d", i)
		}
	}
	if results[0].EpisodeNumber != 2 {
		t.Errorf("expected the databases episode first, got %+v", results[0])
	}

	if got := bot.Search("quasar nebula xylophone", 5); len(got) != 0 {
		t.Errorf("expected no hits for unmatched query, got %d", len(got))
	}
	if stub.calls != 0 {
		t.Errorf("search must never call the model")
	}
}

func TestListEpisodes(t *testing.T) {
	bot := loadedChatbot(t, &stubProvider{})

	infos := bot.ListEpisodes()
	if len(infos) != 4 {
		t.Fatalf("expected 4 episodes, got %d", len(infos))
	}
	for i, info := range infos {
		if info.Number != i+1 {
			t.Errorf("episode %d out of order: %+v", i, info)
		}
	}
}

func TestLoadFailureKeepsServing(t *testing.T) {
	bot := loadedChatbot(t, &stubProvider{response: "ok"})

	if _, err := bot.LoadTranscripts(strings.NewReader(`[{"episode_id": "broken"}]`)); err == nil {
		t.Fatalf("expected malformed load to fail")
	}
	if got := bot.EpisodeCount(); got != 4 {
		t.Errorf("expected previous corpus to keep serving, got %d episodes", got)
	}
	if hits := bot.Search("machine learning", 3); len(hits) == 0 {
		t.Errorf("expected previous index to keep serving")
	}
}

func TestAddEpisodeRebuildsIndex(t *testing.T) {
	bot := loadedChatbot(t, &stubProvider{})

	err := bot.AddEpisode(models.Episode{
		ID:         "ep-005",
		Title:      "Interview Special",
		Number:     5,
		Transcript: "A wide ranging interview about zettelkasten note taking and deliberate practice.",
	})
	if err != nil {
		t.Fatalf("add episode: %v", err)
	}
	if hits := bot.Search("zettelkasten", 3); len(hits) != 1 {
		t.Fatalf("expected the new episode to be searchable, got %d hits", len(hits))
	}

	err = bot.AddEpisode(models.Episode{ID: "ep-001", Title: "Dup", Transcript: "dup"})
	var dup models.ErrDuplicateEpisode
	if !errors.As(err, &dup) {
		t.Fatalf("expected ErrDuplicateEpisode, got %v", err)
	}
	if got := bot.EpisodeCount(); got != 5 {
		t.Errorf("episode count changed on rejected insert: %d", got)
	}
}

func TestAnswerRankingsStableAcrossReloads(t *testing.T) {
	bot := loadedChatbot(t, &stubProvider{response: "ok"})
	first := bot.Search("machine learning data", 5)

	if _, err := bot.LoadTranscripts(strings.NewReader(fourEpisodeCorpus)); err != nil {
		t.Fatalf("reload: %v", err)
	}
	second := bot.Search("machine learning data", 5)

	if len(first) != len(second) {
		t.Fatalf("hit count changed across reload: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("hit %d changed across reload: %+v vs %+v", i, first[i], second[i])
		}
	}
}
