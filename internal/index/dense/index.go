// Package dense implements the bundle's dense vector structure: a
// flat inner-product index over L2-normalized float32 vectors.
//
// Flat search is exact, so top-k membership and ordering are fully
// deterministic for a fixed vector set: no recall bound to document,
// no seed to carry. On corpora of regulatory scale (thousands of
// chunks) a flat scan is also comfortably fast.
package dense

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an immutable flat vector index. Vectors are stored
// normalized, in chunk order; the row position is the join key shared
// with the sparse index and the chunk table.
type Index struct {
	dim     int
	vectors [][]float32
}

// Build constructs an index over the given vectors. Every vector must
// have the given dimension; vectors are L2-normalized on the way in so
// inner product equals cosine similarity at search time.
func Build(dim int, vectors [][]float32) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dense: dimension must be positive")
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("dense: %w", domain.ErrEmptyChunkSet)
	}

	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("dense: vector %d has dimension %d, want %d: %w",
				i, len(v), dim, domain.ErrDimensionMismatch)
		}
		normalized[i] = normalize(v)
	}

	return &Index{dim: dim, vectors: normalized}, nil
}

// Search returns the k most similar vectors to the query, ordered by
// non-increasing cosine similarity with ascending-position tiebreak.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("dense: query has dimension %d, want %d: %w",
			len(query), idx.dim, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, nil
	}

	q := normalize(query)

	hits := make([]driven.VectorHit, len(idx.vectors))
	for i, v := range idx.vectors {
		hits[i] = driven.VectorHit{Seq: i, Similarity: dot(q, v)}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Similarity != hits[b].Similarity {
			return hits[a].Similarity > hits[b].Similarity
		}
		return hits[a].Seq < hits[b].Seq
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	return len(idx.vectors)
}

// Dimensions returns the vector dimension.
func (idx *Index) Dimensions() int {
	return idx.dim
}

// Vectors exposes the normalized matrix for serialization.
// Callers must not mutate the returned slices.
func (idx *Index) Vectors() [][]float32 {
	return idx.vectors
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		// Zero vectors stay zero; they match nothing
		out := make([]float32, len(v))
		return out
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
