package store

import (
	"strings"

	"github.com/mohammad-safakhou/podbotnik/models"
)

// SegmentConfig controls how transcripts are cut into searchable segments.
type SegmentConfig struct {
	// ChunkWords is the number of words per segment. The final segment of an
	// episode holds the remainder.
	ChunkWords int
	// WordsPerSecond is the assumed speech rate used to estimate a segment's
	// playback offset from the words spoken before it. The offsets are
	// deterministic estimates, not audio-aligned timestamps.
	WordsPerSecond float64
}

// DefaultSegmentConfig returns the segmentation defaults: 75-word chunks at
// 2.5 words per second, roughly thirty seconds of speech per segment.
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{ChunkWords: 75, WordsPerSecond: 2.5}
}

func (c SegmentConfig) normalized() SegmentConfig {
	def := DefaultSegmentConfig()
	if c.ChunkWords < 1 {
		c.ChunkWords = def.ChunkWords
	}
	if c.WordsPerSecond <= 0 {
		c.WordsPerSecond = def.WordsPerSecond
	}
	return c
}

// segmentEpisode cuts one transcript into fixed-size word chunks in original
// word order, with no overlap. seq is the global sequence counter; the
// returned value is the counter after the episode's segments.
func segmentEpisode(ep models.Episode, cfg SegmentConfig, seq int) ([]models.Segment, int) {
	words := strings.Fields(ep.Transcript)
	if len(words) == 0 {
		return nil, seq
	}

	segments := make([]models.Segment, 0, (len(words)+cfg.ChunkWords-1)/cfg.ChunkWords)
	for start := 0; start < len(words); start += cfg.ChunkWords {
		end := start + cfg.ChunkWords
		if end > len(words) {
			end = len(words)
		}
		segments = append(segments, models.Segment{
			EpisodeID:     ep.ID,
			EpisodeTitle:  ep.Title,
			EpisodeNumber: ep.Number,
			VideoURL:      ep.VideoURL,
			AudioURL:      ep.AudioURL,
			Text:          strings.Join(words[start:end], " "),
			StartSeconds:  int(float64(start) / cfg.WordsPerSecond),
			Index:         len(segments),
			Seq:           seq,
		})
		seq++
	}
	return segments, seq
}
