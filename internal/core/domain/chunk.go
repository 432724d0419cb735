package domain

// Chunk represents a contiguous span of a document's text.
// Chunks are created once at bundle-build time and never mutated;
// a full rebuild is the only way to replace them.
type Chunk struct {
	// ID is the stable identifier, derived from the document and the
	// chunk's starting offset. Re-chunking identical text with identical
	// settings reproduces identical IDs.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Seq is the ordinal position within the bundle's chunk table.
	// It is the join key shared by the dense vectors, the sparse
	// entries and the chunk table.
	Seq int

	// Page is the source page this chunk starts on, or 0 when the
	// document has no page map.
	Page int

	// Content is the chunk text.
	Content string

	// CharStart and CharEnd delimit the chunk within the document
	// text, in runes. Consecutive chunks overlap; no characters are
	// dropped between them.
	CharStart int
	CharEnd   int
}
