package driven

import "context"

// SparseIndex provides lexical (BM25) search over the same chunks the
// dense index covers. Like the vector index, it is immutable once
// built and carries its own corpus statistics.
type SparseIndex interface {
	// Search scores the query terms against every indexed chunk and
	// returns the k best, ordered by non-increasing score, ties broken
	// by ascending sequence position. Chunks scoring zero are omitted.
	Search(ctx context.Context, query string, k int) ([]SparseHit, error)

	// Len returns the number of indexed chunks.
	Len() int
}

// SparseHit represents a lexical search result.
type SparseHit struct {
	// Seq is the chunk's position in the bundle's chunk table.
	Seq int

	// Score is the BM25 relevance score. Unbounded; never comparable
	// with dense similarities.
	Score float64
}
