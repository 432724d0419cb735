package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNoExtractableText indicates a document yielded no text to
	// chunk. Fatal for that document only; a batch build skips it and
	// continues with the remaining documents.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrEmbeddingFailed indicates the embedding function errored.
	// At build time the whole build aborts and nothing is published;
	// at query time the query fails with no partial result.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrEmptyChunkSet indicates an index build was attempted over
	// zero chunks.
	ErrEmptyChunkSet = errors.New("empty chunk set")

	// ErrDimensionMismatch indicates a vector does not match the
	// index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrBundleNotFound indicates no published bundle exists. The
	// engine refuses to serve queries until a bundle is loaded.
	ErrBundleNotFound = errors.New("bundle not found")

	// ErrBundleIncompatible indicates a bundle on disk carries an
	// unknown serialization format version.
	ErrBundleIncompatible = errors.New("bundle format incompatible")

	// ErrBundleCorrupt indicates a bundle's artifacts disagree with
	// each other or with the manifest. The loader refuses to serve
	// rather than silently degrade to one retrieval path.
	ErrBundleCorrupt = errors.New("bundle corrupt")

	// ErrRetrievalFailed indicates an underlying search structure
	// failed at query time. Surfaced to the caller; the engine never
	// silently falls back to a single-path result.
	ErrRetrievalFailed = errors.New("retrieval failed")
)
