// Package search indexes tunes for melodic and faceted lookup.
//
// Melody search is interval-trigram based: a query whistled a few
// notes off in absolute pitch still matches, because only the
// semitone steps between notes are indexed. Facets and title terms
// filter; trigram overlap ranks.
package search

import (
	"math"
	"sort"

	"tunedb/internal/ast"
	"tunedb/internal/features"
	"tunedb/internal/pitch"
	"tunedb/internal/text"
)

// DefaultRows is the page size when a query does not name one.
const DefaultRows = 10

type gram [3]int8

type Index struct {
	trigrams map[gram][]uint32
	facets   map[string]map[string][]uint32
	titles   map[string][]uint32
	gramCnt  map[uint32]int // trigrams per document, for normalization
	ids      []uint32
}

func NewIndex() *Index {
	return &Index{
		trigrams: make(map[gram][]uint32),
		facets:   make(map[string]map[string][]uint32),
		titles:   make(map[string][]uint32),
		gramCnt:  make(map[uint32]int),
	}
}

// Len is the number of indexed tunes.
func (ix *Index) Len() int {
	return len(ix.ids)
}

// Add indexes one tune under the given id. Ids must be added at most
// once; re-adding duplicates postings.
func (ix *Index) Add(id uint32, t *ast.Tune) {
	ix.ids = append(ix.ids, id)

	for _, f := range features.Extract(t) {
		byValue := ix.facets[f.Facet]
		if byValue == nil {
			byValue = make(map[string][]uint32)
			ix.facets[f.Facet] = byValue
		}
		byValue[f.Value] = append(byValue[f.Value], id)
	}

	seen := make(map[string]bool)
	for _, title := range t.Titles() {
		for _, term := range text.Tokenize(title) {
			if seen[term] {
				continue
			}
			seen[term] = true
			ix.titles[term] = append(ix.titles[term], id)
		}
	}

	intervals := pitch.Intervals(pitch.MidiSequence(t))
	for _, g := range grams(intervals) {
		ix.trigrams[g] = append(ix.trigrams[g], id)
	}
	ix.gramCnt[id] = max(len(intervals)-2, 0)
}

func grams(intervals []int) []gram {
	if len(intervals) < 3 {
		return nil
	}
	out := make([]gram, 0, len(intervals)-2)
	for i := 0; i+2 < len(intervals); i++ {
		out = append(out, gram{clamp(intervals[i]), clamp(intervals[i+1]), clamp(intervals[i+2])})
	}
	return out
}

func clamp(iv int) int8 {
	if iv > 12 {
		return 12
	}
	if iv < -12 {
		return -12
	}
	return int8(iv)
}

// Query combines an optional melodic fragment with filters. Facets
// must all match; title terms must all appear.
type Query struct {
	Intervals []int
	Title     string
	Facets    map[string]string
	Offset    int
	Rows      int
}

type Hit struct {
	ID    uint32
	Score float64
}

type Result struct {
	Hits  []Hit
	Total int
}

// Search runs a query. Results are ordered by score descending, id
// ascending, so pagination is stable across identical calls.
func (ix *Index) Search(q Query) Result {
	allowed := ix.filter(q)

	scores := make(map[uint32]float64)
	if len(q.Intervals) >= 3 {
		qGrams := grams(q.Intervals)
		overlap := make(map[uint32]int)
		for _, g := range qGrams {
			for _, id := range ix.trigrams[g] {
				if allowed != nil && !allowed[id] {
					continue
				}
				overlap[id]++
			}
		}
		for id, n := range overlap {
			den := math.Sqrt(float64(len(qGrams)) * float64(ix.gramCnt[id]))
			if den > 0 {
				scores[id] = float64(n) / den
			}
		}
	} else {
		// Filter-only query: every allowed tune, unranked.
		for _, id := range ix.ids {
			if allowed == nil || allowed[id] {
				scores[id] = 1
			}
		}
	}

	hits := make([]Hit, 0, len(scores))
	for id, s := range scores {
		hits = append(hits, Hit{ID: id, Score: s})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	total := len(hits)
	rows := q.Rows
	if rows <= 0 {
		rows = DefaultRows
	}
	offset := q.Offset
	if offset > total {
		offset = total
	}
	end := min(offset+rows, total)
	return Result{Hits: hits[offset:end], Total: total}
}

// filter intersects the facet and title postings. A nil result means
// no filtering was requested; an empty map means nothing matches.
func (ix *Index) filter(q Query) map[uint32]bool {
	var lists [][]uint32
	for facet, value := range q.Facets {
		lists = append(lists, ix.facets[facet][value])
	}
	for _, term := range text.Tokenize(q.Title) {
		lists = append(lists, ix.titles[term])
	}
	if len(lists) == 0 {
		return nil
	}

	allowed := make(map[uint32]bool)
	for _, id := range lists[0] {
		allowed[id] = true
	}
	for _, list := range lists[1:] {
		next := make(map[uint32]bool)
		for _, id := range list {
			if allowed[id] {
				next[id] = true
			}
		}
		allowed = next
	}
	return allowed
}
