package driven

import "context"

// VectorIndex provides dense similarity search over one bundle's
// vector set. An index is built once, persisted inside the bundle and
// read-only for the lifetime of serving traffic, so implementations
// need no locking on the search path.
type VectorIndex interface {
	// Search finds the k most similar vectors to the query. Hits are
	// ordered by non-increasing similarity, ties broken by ascending
	// sequence position for determinism.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimensions returns the vector dimension.
	Dimensions() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Seq is the chunk's position in the bundle's chunk table,
	// the join key shared by all bundle artifacts.
	Seq int

	// Similarity is the cosine similarity score (0-1 for normalized
	// corpora).
	Similarity float64
}
