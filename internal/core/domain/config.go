package domain

// Default engine configuration values.
const (
	DefaultChunkSize          = 500
	DefaultChunkOverlap       = 50
	DefaultEmbeddingDimension = 384
	DefaultBM25K1             = 1.5
	DefaultBM25B              = 0.75
	DefaultRRFK               = 60
	DefaultKDense             = 30
	DefaultKSparse            = 30
	DefaultKFinal             = 5
	DefaultRelevanceThreshold = 0.35
)

// EngineConfig is the recognized configuration surface of the
// retrieval engine. Every knob trades retrieval quality against
// recall; none affects the correctness of the fusion math.
type EngineConfig struct {
	// ChunkSize and ChunkOverlap configure the chunker, in runes.
	ChunkSize    int
	ChunkOverlap int

	// EmbeddingDimension is the dense vector size. Must match the
	// embedding model.
	EmbeddingDimension int

	// BM25K1 controls term-frequency saturation (typical 1.2-2.0).
	BM25K1 float64

	// BM25B controls document-length normalization (typical 0.75).
	BM25B float64

	// RRFK is the reciprocal rank fusion constant (standard 60).
	RRFK int

	// KDense, KSparse and KFinal are the candidate list sizes.
	KDense  int
	KSparse int
	KFinal  int

	// DenseWeight and SparseWeight scale each path's reciprocal-rank
	// contribution. Both default to 1.0, the plain RRF sum.
	DenseWeight  float64
	SparseWeight float64

	// RelevanceThreshold is the grounding gate: when the configured
	// metric's best observed value is below it, no context is
	// surfaced and no generation is permitted.
	RelevanceThreshold float64

	// RelevanceMetric selects the signal the gate compares against
	// the threshold.
	RelevanceMetric GateMetric
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ChunkSize:          DefaultChunkSize,
		ChunkOverlap:       DefaultChunkOverlap,
		EmbeddingDimension: DefaultEmbeddingDimension,
		BM25K1:             DefaultBM25K1,
		BM25B:              DefaultBM25B,
		RRFK:               DefaultRRFK,
		KDense:             DefaultKDense,
		KSparse:            DefaultKSparse,
		KFinal:             DefaultKFinal,
		DenseWeight:        1.0,
		SparseWeight:       1.0,
		RelevanceThreshold: DefaultRelevanceThreshold,
		RelevanceMetric:    GateMetricCosine,
	}
}

// Normalized returns a copy with zero or out-of-range values replaced
// by defaults, so a partially specified configuration always yields a
// working engine.
func (c EngineConfig) Normalized() EngineConfig {
	def := DefaultEngineConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = def.ChunkSize
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = c.ChunkSize / 10
	}
	if c.EmbeddingDimension <= 0 {
		c.EmbeddingDimension = def.EmbeddingDimension
	}
	if c.BM25K1 <= 0 {
		c.BM25K1 = def.BM25K1
	}
	if c.BM25B < 0 || c.BM25B > 1 {
		c.BM25B = def.BM25B
	}
	if c.RRFK <= 0 {
		c.RRFK = def.RRFK
	}
	if c.KDense <= 0 {
		c.KDense = def.KDense
	}
	if c.KSparse <= 0 {
		c.KSparse = def.KSparse
	}
	if c.KFinal <= 0 {
		c.KFinal = def.KFinal
	}
	if c.DenseWeight <= 0 {
		c.DenseWeight = 1.0
	}
	if c.SparseWeight <= 0 {
		c.SparseWeight = 1.0
	}
	if c.RelevanceThreshold < 0 {
		c.RelevanceThreshold = def.RelevanceThreshold
	}
	if !c.RelevanceMetric.IsValid() {
		c.RelevanceMetric = def.RelevanceMetric
	}
	return c
}
