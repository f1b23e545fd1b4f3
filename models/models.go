package models

// Episode is one podcast episode as loaded from the transcript corpus.
// Episodes are immutable once loaded; reloading replaces the whole set.
type Episode struct {
	ID         string `json:"episode_id"`
	Title      string `json:"episode_title"`
	Number     int    `json:"episode_number"`
	Transcript string `json:"transcript"`
	VideoURL   string `json:"video_url,omitempty"`
	AudioURL   string `json:"audio_url,omitempty"`
}

// Segment is a fixed-size slice of an episode transcript, the unit of
// retrieval. StartSeconds is estimated from a constant speech rate applied
// to the words preceding the segment; it is deterministic, not audio-aligned.
type Segment struct {
	EpisodeID     string `json:"episode_id"`
	EpisodeTitle  string `json:"episode_title"`
	EpisodeNumber int    `json:"episode_number"`
	VideoURL      string `json:"video_url,omitempty"`
	AudioURL      string `json:"audio_url,omitempty"`
	Text          string `json:"text"`
	StartSeconds  int    `json:"start_seconds"`
	Index         int    `json:"index"` // position within the episode
	Seq           int    `json:"seq"`   // global insertion order, ranking tie-break
}

// Citation points an answer back at the transcript segment that grounded it.
type Citation struct {
	Episode       string `json:"episode"`
	EpisodeNumber int    `json:"episode_number"`
	Timestamp     string `json:"timestamp"`
	Segment       string `json:"segment"`
	VideoLink     string `json:"video_link,omitempty"`
	AudioLink     string `json:"audio_link,omitempty"`
}

// Answer is the result of one question: generated text plus a citation for
// every segment used as context.
type Answer struct {
	Answer      string     `json:"answer"`
	Sources     []Citation `json:"sources"`
	ContextUsed int        `json:"context_used"`
}

// EpisodeInfo is the listing projection of an episode.
type EpisodeInfo struct {
	Number int    `json:"episode_number"`
	Title  string `json:"title"`
}
