package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/mohammad-safakhou/podbotnik/models"
)

// Store holds the current transcript corpus. Mutations assemble a complete
// replacement snapshot and swap it in only on success, so concurrent readers
// never observe a partial rebuild and a failed load keeps the previous data
// serving.
type Store struct {
	cfg SegmentConfig

	mu   sync.RWMutex
	snap *Snapshot
}

// Snapshot is an immutable view of the loaded corpus: episodes in load order
// and their derived segments in generation order. Callers must not mutate the
// returned slices.
type Snapshot struct {
	episodes []models.Episode
	segments []models.Segment
	byID     map[string]int
}

// New returns an empty store using the given segmentation settings.
func New(cfg SegmentConfig) *Store {
	return &Store{cfg: cfg.normalized(), snap: emptySnapshot()}
}

func emptySnapshot() *Snapshot {
	return &Snapshot{byID: map[string]int{}}
}

// Load replaces the whole collection with the episodes decoded from r.
func (s *Store) Load(r io.Reader) (*Snapshot, error) {
	episodes, err := parseEpisodes(r)
	if err != nil {
		return nil, err
	}
	snap := buildSnapshot(episodes, s.cfg)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return snap, nil
}

// LoadFile loads a transcript corpus from a local JSON file.
func (s *Store) LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcripts: %w", err)
	}
	defer f.Close()
	return s.Load(f)
}

// AddEpisode inserts one episode and regenerates the segment sequence. An
// already-present id is rejected and the snapshot stays as it was.
func (s *Store) AddEpisode(ep models.Episode) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateEpisode(len(s.snap.episodes), ep); err != nil {
		return nil, err
	}
	if _, ok := s.snap.byID[ep.ID]; ok {
		return nil, models.ErrDuplicateEpisode{ID: ep.ID}
	}

	episodes := make([]models.Episode, len(s.snap.episodes), len(s.snap.episodes)+1)
	copy(episodes, s.snap.episodes)
	episodes = append(episodes, ep)

	snap := buildSnapshot(episodes, s.cfg)
	s.snap = snap
	return snap, nil
}

// Snapshot returns the current snapshot. Never nil; empty before the first
// load. The result stays valid and consistent while later loads swap in
// replacements.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Episodes returns the loaded episodes in load order.
func (sn *Snapshot) Episodes() []models.Episode { return sn.episodes }

// Segments returns every derived segment in global generation order.
func (sn *Snapshot) Segments() []models.Segment { return sn.segments }

// EpisodeCount returns the number of loaded episodes.
func (sn *Snapshot) EpisodeCount() int { return len(sn.episodes) }

// SegmentCount returns the number of derived segments.
func (sn *Snapshot) SegmentCount() int { return len(sn.segments) }

// Episode looks up an episode by id.
func (sn *Snapshot) Episode(id string) (models.Episode, bool) {
	i, ok := sn.byID[id]
	if !ok {
		return models.Episode{}, false
	}
	return sn.episodes[i], true
}

// ListEpisodes returns the listing projection ordered by episode number
// ascending; repeated numbers keep their load order.
func (sn *Snapshot) ListEpisodes() []models.EpisodeInfo {
	infos := make([]models.EpisodeInfo, len(sn.episodes))
	for i, ep := range sn.episodes {
		infos[i] = models.EpisodeInfo{Number: ep.Number, Title: ep.Title}
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Number < infos[j].Number })
	return infos
}

func buildSnapshot(episodes []models.Episode, cfg SegmentConfig) *Snapshot {
	snap := &Snapshot{
		episodes: episodes,
		byID:     make(map[string]int, len(episodes)),
	}
	seq := 0
	for i, ep := range episodes {
		snap.byID[ep.ID] = i
		var segs []models.Segment
		segs, seq = segmentEpisode(ep, cfg, seq)
		snap.segments = append(snap.segments, segs...)
	}
	return snap
}

func parseEpisodes(r io.Reader) ([]models.Episode, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading transcripts: %w", err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("transcripts must be a JSON array of episodes: %w", err)
	}

	episodes := make([]models.Episode, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, msg := range raw {
		var ep models.Episode
		if err := json.Unmarshal(msg, &ep); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return nil, models.ErrMalformedEpisode{Index: i, Field: typeErr.Field}
			}
			return nil, models.ErrMalformedEpisode{Index: i}
		}
		if err := validateEpisode(i, ep); err != nil {
			return nil, err
		}
		if _, ok := seen[ep.ID]; ok {
			return nil, models.ErrDuplicateEpisode{ID: ep.ID}
		}
		seen[ep.ID] = struct{}{}
		episodes = append(episodes, ep)
	}
	return episodes, nil
}

func validateEpisode(index int, ep models.Episode) error {
	switch {
	case strings.TrimSpace(ep.ID) == "":
		return models.ErrMalformedEpisode{Index: index, Field: "episode_id"}
	case strings.TrimSpace(ep.Title) == "":
		return models.ErrMalformedEpisode{Index: index, Field: "episode_title"}
	case strings.TrimSpace(ep.Transcript) == "":
		return models.ErrMalformedEpisode{Index: index, Field: "transcript"}
	}
	return nil
}
