// Package index ranks transcript segments against free-text queries with
// BM25 term statistics. Rankings are fully deterministic: identical segments
// produce identical statistics, and score ties resolve by segment insertion
// order.
package index

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/mohammad-safakhou/podbotnik/models"
)

// Field identifies a searchable projection of a segment.
type Field string

const (
	// FieldTitle matches against the segment's episode title.
	FieldTitle Field = "title"
	// FieldText matches against the segment text itself.
	FieldText Field = "text"
)

// DefaultFields is the standard search scope: episode title plus segment text.
var DefaultFields = []Field{FieldTitle, FieldText}

// Standard BM25 parameters: k1 saturates term frequency, b scales length
// normalization.
const (
	k1 = 1.2
	b  = 0.75
)

// Hit is one ranked search result.
type Hit struct {
	Segment models.Segment
	Score   float64
}

// Index holds immutable BM25 statistics over a segment collection. Build
// returns a fully-populated value that is never mutated afterwards, so an
// old index stays safe to search while a replacement is built.
type Index struct {
	segments []models.Segment
	fields   map[Field]*fieldStats
}

type fieldStats struct {
	postings  map[string][]posting
	docLens   []int
	avgDocLen float64
}

// posting records one term's occurrences in one document. Lists stay in
// ascending document order because documents are indexed sequentially.
type posting struct {
	doc  int
	freq int
}

// Build constructs the index over the given segments. Segments are addressed
// by their position, which matches their global sequence order.
func Build(segments []models.Segment) *Index {
	idx := &Index{
		segments: segments,
		fields: map[Field]*fieldStats{
			FieldTitle: newFieldStats(len(segments)),
			FieldText:  newFieldStats(len(segments)),
		},
	}
	for i, seg := range segments {
		idx.fields[FieldTitle].add(i, Tokenize(seg.EpisodeTitle))
		idx.fields[FieldText].add(i, Tokenize(seg.Text))
	}
	for _, fs := range idx.fields {
		fs.finish()
	}
	return idx
}

// Search ranks segments against the query over the given fields and returns
// up to maxResults hits by descending score, ties in insertion order. An
// empty index, a zero-overlap query, or maxResults <= 0 all yield an empty
// result, never an error.
func (idx *Index) Search(query string, fields []Field, maxResults int) []Hit {
	if maxResults <= 0 || len(idx.segments) == 0 {
		return nil
	}
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	if len(fields) == 0 {
		fields = DefaultFields
	}

	scores := make([]float64, len(idx.segments))
	matched := make([]bool, len(idx.segments))
	for _, field := range fields {
		if fs, ok := idx.fields[field]; ok {
			fs.score(terms, scores, matched)
		}
	}

	hits := make([]Hit, 0, maxResults)
	for i, seg := range idx.segments {
		if matched[i] {
			hits = append(hits, Hit{Segment: seg, Score: scores[i]})
		}
	}
	// Stable sort: equal scores keep the ascending-sequence scan order.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	return hits
}

// Tokenize lowercases s and splits it on every non-letter, non-digit rune.
// It defines the normalization applied to both indexed fields and queries.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func newFieldStats(n int) *fieldStats {
	return &fieldStats{postings: map[string][]posting{}, docLens: make([]int, n)}
}

func (fs *fieldStats) add(doc int, terms []string) {
	fs.docLens[doc] = len(terms)
	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	for term, freq := range counts {
		fs.postings[term] = append(fs.postings[term], posting{doc: doc, freq: freq})
	}
}

func (fs *fieldStats) finish() {
	total := 0
	for _, l := range fs.docLens {
		total += l
	}
	if len(fs.docLens) > 0 {
		fs.avgDocLen = float64(total) / float64(len(fs.docLens))
	}
}

func (fs *fieldStats) score(terms []string, scores []float64, matched []bool) {
	n := float64(len(fs.docLens))
	for _, term := range terms {
		postings := fs.postings[term]
		if len(postings) == 0 {
			continue
		}
		df := float64(len(postings))
		// Non-negative IDF variant, so a term in most documents still
		// contributes instead of flipping the ranking.
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		for _, p := range postings {
			norm := 1 - b + b*float64(fs.docLens[p.doc])/fs.avgDocLen
			tf := float64(p.freq) * (k1 + 1) / (float64(p.freq) + k1*norm)
			scores[p.doc] += idf * tf
			matched[p.doc] = true
		}
	}
}
