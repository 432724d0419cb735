package driven

import (
	"context"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// IndexBundle is one loaded, internally consistent unit of
// {dense structure, sparse structure, chunk table, document table}.
// Chunk ordering is identical across all artifacts: Chunks[i] owns
// dense vector i and sparse entry i.
//
// A bundle is read-only once loaded. Replacing it is the lifecycle
// manager's job and happens by pointer swap, never in place.
type IndexBundle struct {
	Manifest  domain.BundleManifest
	Dense     VectorIndex
	Sparse    SparseIndex
	Chunks    []domain.Chunk
	Documents []domain.Document
}

// ChunkBySeq returns the chunk at the given sequence position.
func (b *IndexBundle) ChunkBySeq(seq int) (domain.Chunk, bool) {
	if seq < 0 || seq >= len(b.Chunks) {
		return domain.Chunk{}, false
	}
	return b.Chunks[seq], true
}

// ChunkByID returns the chunk with the given stable identifier.
func (b *IndexBundle) ChunkByID(id string) (domain.Chunk, bool) {
	for _, c := range b.Chunks {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Chunk{}, false
}

// DocumentByID returns the document with the given identifier.
func (b *IndexBundle) DocumentByID(id string) (domain.Document, bool) {
	for _, d := range b.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Document{}, false
}

// BuildArtifacts is the material a finished build hands to the store:
// the manifest, every chunk's dense vector and the chunk/document
// tables, all in chunk order. The store constructs the dense and
// sparse search structures from these and persists the four artifacts
// as one unit.
type BuildArtifacts struct {
	Manifest  domain.BundleManifest
	Vectors   [][]float32
	Chunks    []domain.Chunk
	Documents []domain.Document
}

// BundleStore persists and reloads index bundles.
//
// Saving is all-or-nothing: a failed build must never overwrite a
// previously published bundle. Publishing is atomic: readers observe
// either the old bundle or the new one, never a mix.
type BundleStore interface {
	// Save writes the artifacts as a new bundle version and returns
	// its bundle ID. The bundle is not served until Publish.
	Save(ctx context.Context, artifacts *BuildArtifacts) (string, error)

	// Publish atomically marks the given bundle as current.
	Publish(ctx context.Context, bundleID string) error

	// Load reads and validates the bundle with the given ID.
	Load(ctx context.Context, bundleID string) (*IndexBundle, error)

	// LoadCurrent reads and validates the published bundle.
	// Returns domain.ErrBundleNotFound when nothing is published.
	LoadCurrent(ctx context.Context) (*IndexBundle, error)

	// CurrentID returns the published bundle ID without loading it.
	CurrentID(ctx context.Context) (string, error)
}
