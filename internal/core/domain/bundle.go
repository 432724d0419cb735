package domain

import "time"

// ManifestFormatVersion is the bundle serialization format version.
// A loader must reject any bundle whose manifest carries a different
// version rather than attempt a partial read.
const ManifestFormatVersion = 1

// BundleManifest describes one persisted index bundle. It accompanies
// the four co-versioned artifacts (dense vectors, dense structure,
// sparse statistics, chunk/metadata tables) so a loader can validate
// internal consistency before serving.
type BundleManifest struct {
	// FormatVersion is the serialization format version.
	FormatVersion int `json:"format_version"`

	// BundleID identifies this build, e.g. "20260829-143210".
	BundleID string `json:"bundle_id"`

	// CreatedAt is when the build completed.
	CreatedAt time.Time `json:"created_at"`

	// DocumentCount and ChunkCount are the table sizes. Every artifact
	// must agree on ChunkCount; index position is the join key.
	DocumentCount int `json:"document_count"`
	ChunkCount    int `json:"chunk_count"`

	// EmbeddingModel and EmbeddingDimension pin the embedding function
	// the bundle was built with. Queries must embed with the same
	// function or the dense metric is meaningless.
	EmbeddingModel     string `json:"embedding_model"`
	EmbeddingDimension int    `json:"embedding_dimension"`
}
