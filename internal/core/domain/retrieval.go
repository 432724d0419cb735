package domain

// RetrievalResult is a ranked candidate produced by a single retrieval
// path. RawScore is engine-specific (cosine similarity for the dense
// path, BM25 for the sparse path) and must never be compared across
// paths; fusion works on rank positions only.
type RetrievalResult struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Rank is the 1-based position within this path (1 = most relevant).
	Rank int

	// RawScore is the path's native relevance score.
	RawScore float64
}

// FusedResult is a candidate after reciprocal rank fusion.
type FusedResult struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// FusedScore is the summed reciprocal-rank contribution of every
	// path that ranked this chunk.
	FusedScore float64

	// FusedRank is the 1-based position after fusion.
	FusedRank int

	// DenseRank and SparseRank are the per-path positions, or 0 when
	// the chunk was absent from that path.
	DenseRank  int
	SparseRank int
}

// RetrievalSet is the full outcome of one hybrid retrieval: the fused
// ranking plus the best raw score observed on each path, which the
// grounding gate needs since fused scores live on their own scale.
type RetrievalSet struct {
	// Results is sorted by non-increasing FusedScore and truncated to
	// the configured final size.
	Results []FusedResult

	// BestCosine is the highest dense cosine similarity among the
	// retained results, or 0 when none of them came from the dense
	// path.
	BestCosine float64

	// BestBM25 is the highest sparse BM25 score among the retained
	// results, mapped onto (0, 1) by score/(score+1). The mapping is
	// query independent: a weak best match stays a low value instead
	// of being rescaled to 1.0. Zero when none of the retained
	// results came from the sparse path.
	BestBM25 float64
}

// RetrievalOptions overrides per-query candidate list sizes.
// Zero values fall back to the engine configuration.
type RetrievalOptions struct {
	// KDense is the dense candidate list size.
	KDense int

	// KSparse is the sparse candidate list size.
	KSparse int

	// KFinal is the fused result size.
	KFinal int
}
