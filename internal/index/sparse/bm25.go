// Package sparse implements the bundle's lexical structure: a BM25
// (Okapi) inverted index with per-chunk term frequencies and
// corpus-wide document statistics.
package sparse

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SparseIndex = (*Index)(nil)

// Default BM25 tunables.
const (
	DefaultK1 = domain.DefaultBM25K1
	DefaultB  = domain.DefaultBM25B
)

// posting records how often a term occurs in one chunk.
type posting struct {
	Seq int `json:"seq"`
	TF  int `json:"tf"`
}

// Index is an immutable BM25 index. Chunk positions match the dense
// index and the chunk table row for row.
type Index struct {
	k1        float64
	b         float64
	postings  map[string][]posting
	docLens   []int
	avgDocLen float64
}

// Option configures the index build.
type Option func(*Index)

// WithK1 sets the term-frequency saturation constant (typical 1.2-2.0).
func WithK1(k1 float64) Option {
	return func(idx *Index) {
		if k1 > 0 {
			idx.k1 = k1
		}
	}
}

// WithB sets the length-normalization constant (typical 0.75).
func WithB(b float64) Option {
	return func(idx *Index) {
		if b >= 0 && b <= 1 {
			idx.b = b
		}
	}
}

// Build constructs the index over chunk texts, in chunk order.
func Build(texts []string, opts ...Option) (*Index, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("sparse: %w", domain.ErrEmptyChunkSet)
	}

	idx := &Index{
		k1:       DefaultK1,
		b:        DefaultB,
		postings: make(map[string][]posting),
		docLens:  make([]int, len(texts)),
	}
	for _, opt := range opts {
		opt(idx)
	}

	totalLen := 0
	for seq, text := range texts {
		tokens := Tokenize(text)
		idx.docLens[seq] = len(tokens)
		totalLen += len(tokens)

		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		for term, n := range tf {
			idx.postings[term] = append(idx.postings[term], posting{Seq: seq, TF: n})
		}
	}
	idx.avgDocLen = float64(totalLen) / float64(len(texts))

	// Postings arrive in seq order per term already, but sort keeps
	// the serialized form canonical regardless of map iteration.
	for term := range idx.postings {
		ps := idx.postings[term]
		sort.Slice(ps, func(i, j int) bool { return ps[i].Seq < ps[j].Seq })
	}

	return idx, nil
}

// Search scores the query against every chunk containing at least one
// query term and returns the k best. Chunks scoring zero are omitted;
// an empty result is a valid outcome.
func (idx *Index) Search(_ context.Context, query string, k int) ([]driven.SparseHit, error) {
	if k <= 0 {
		return nil, nil
	}

	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	n := float64(len(idx.docLens))
	scores := make(map[int]float64)

	for _, term := range terms {
		ps, ok := idx.postings[term]
		if !ok {
			continue
		}

		df := float64(len(ps))
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))

		for _, p := range ps {
			tf := float64(p.TF)
			lenNorm := 1 - idx.b + idx.b*float64(idx.docLens[p.Seq])/idx.avgDocLen
			scores[p.Seq] += idf * tf * (idx.k1 + 1) / (tf + idx.k1*lenNorm)
		}
	}

	hits := make([]driven.SparseHit, 0, len(scores))
	for seq, score := range scores {
		if score > 0 {
			hits = append(hits, driven.SparseHit{Seq: seq, Score: score})
		}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Seq < hits[b].Seq
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.docLens)
}
