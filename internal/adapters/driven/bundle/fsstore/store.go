// Package fsstore persists index bundles as versioned directories on
// the local filesystem.
//
// Layout under the data directory:
//
//	bundles/<bundleID>/manifest.json   bundle manifest
//	bundles/<bundleID>/dense.bin       dense vector matrix
//	bundles/<bundleID>/sparse.json     BM25 statistics
//	bundles/<bundleID>/chunks.db       chunk + document tables (SQLite)
//	bundles/CURRENT                    published bundle ID
//
// Save writes into a temporary directory and renames it into place;
// Publish rewrites CURRENT through a temp file and rename. A failed
// build therefore never clobbers a previously published bundle, and a
// reader resolving CURRENT sees either the old ID or the new one.
package fsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexra-labs/lexra-cli/internal/adapters/driven/storage/sqlite"
	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
	"github.com/lexra-labs/lexra-cli/internal/index/dense"
	"github.com/lexra-labs/lexra-cli/internal/index/sparse"
	"github.com/lexra-labs/lexra-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.BundleStore = (*Store)(nil)

// Artifact file names inside a bundle directory.
const (
	manifestFile = "manifest.json"
	denseFile    = "dense.bin"
	sparseFile   = "sparse.json"
	chunksFile   = "chunks.db"
	currentFile  = "CURRENT"
)

// Store is a filesystem-backed bundle store.
type Store struct {
	dir string // <dataDir>/bundles
	k1  float64
	b   float64
}

// New creates a bundle store rooted at dataDir. k1 and b are the BM25
// tunables baked into every sparse artifact this store builds.
func New(dataDir string, k1, b float64) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lexra", "data")
	}

	dir := filepath.Join(dataDir, "bundles")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating bundle directory: %w", err)
	}

	if k1 <= 0 {
		k1 = sparse.DefaultK1
	}
	if b < 0 || b > 1 {
		b = sparse.DefaultB
	}

	return &Store{dir: dir, k1: k1, b: b}, nil
}

// Dir returns the bundle directory this store manages.
func (s *Store) Dir() string {
	return s.dir
}

// CurrentPath returns the path of the CURRENT pointer file, which
// watchers can observe for republishes.
func (s *Store) CurrentPath() string {
	return filepath.Join(s.dir, currentFile)
}

// Save writes the artifacts as a new bundle version. The bundle is
// complete on disk but not served until Publish.
func (s *Store) Save(ctx context.Context, artifacts *driven.BuildArtifacts) (string, error) {
	if len(artifacts.Chunks) == 0 {
		return "", fmt.Errorf("fsstore: %w", domain.ErrEmptyChunkSet)
	}
	if len(artifacts.Vectors) != len(artifacts.Chunks) {
		return "", fmt.Errorf("fsstore: %d vectors for %d chunks: %w",
			len(artifacts.Vectors), len(artifacts.Chunks), domain.ErrBundleCorrupt)
	}

	bundleID := artifacts.Manifest.BundleID
	if bundleID == "" {
		bundleID = time.Now().UTC().Format("20060102-150405")
	}

	manifest := artifacts.Manifest
	manifest.FormatVersion = domain.ManifestFormatVersion
	manifest.BundleID = bundleID
	manifest.DocumentCount = len(artifacts.Documents)
	manifest.ChunkCount = len(artifacts.Chunks)
	if manifest.CreatedAt.IsZero() {
		manifest.CreatedAt = time.Now().UTC()
	}

	tmpDir := filepath.Join(s.dir, ".tmp-"+bundleID)
	if err := os.MkdirAll(tmpDir, 0o700); err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	if err := s.writeArtifacts(ctx, tmpDir, manifest, artifacts); err != nil {
		return "", err
	}

	finalDir := filepath.Join(s.dir, bundleID)
	if err := os.Rename(tmpDir, finalDir); err != nil {
		return "", fmt.Errorf("promoting bundle %s: %w", bundleID, err)
	}

	logger.Info("Saved bundle %s (%d documents, %d chunks)",
		bundleID, manifest.DocumentCount, manifest.ChunkCount)

	return bundleID, nil
}

func (s *Store) writeArtifacts(
	ctx context.Context, dir string, manifest domain.BundleManifest, artifacts *driven.BuildArtifacts,
) error {
	// Dense structure
	denseIdx, err := dense.Build(manifest.EmbeddingDimension, artifacts.Vectors)
	if err != nil {
		return fmt.Errorf("building dense index: %w", err)
	}
	df, err := os.Create(filepath.Join(dir, denseFile))
	if err != nil {
		return fmt.Errorf("creating dense artifact: %w", err)
	}
	if err := denseIdx.Write(df); err != nil {
		df.Close()
		return fmt.Errorf("writing dense artifact: %w", err)
	}
	if err := df.Close(); err != nil {
		return fmt.Errorf("closing dense artifact: %w", err)
	}

	// Sparse structure
	texts := make([]string, len(artifacts.Chunks))
	for i, c := range artifacts.Chunks {
		texts[i] = c.Content
	}
	sparseIdx, err := sparse.Build(texts, sparse.WithK1(s.k1), sparse.WithB(s.b))
	if err != nil {
		return fmt.Errorf("building sparse index: %w", err)
	}
	sf, err := os.Create(filepath.Join(dir, sparseFile))
	if err != nil {
		return fmt.Errorf("creating sparse artifact: %w", err)
	}
	if err := sparseIdx.Write(sf); err != nil {
		sf.Close()
		return fmt.Errorf("writing sparse artifact: %w", err)
	}
	if err := sf.Close(); err != nil {
		return fmt.Errorf("closing sparse artifact: %w", err)
	}

	// Chunk and document tables
	store, err := sqlite.Open(filepath.Join(dir, chunksFile))
	if err != nil {
		return fmt.Errorf("creating chunk table: %w", err)
	}
	if err := store.SaveDocuments(ctx, artifacts.Documents); err != nil {
		store.Close()
		return fmt.Errorf("writing document table: %w", err)
	}
	if err := store.SaveChunks(ctx, artifacts.Chunks); err != nil {
		store.Close()
		return fmt.Errorf("writing chunk table: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("closing chunk table: %w", err)
	}

	// Manifest goes last: its presence marks the directory complete.
	mf, err := os.Create(filepath.Join(dir, manifestFile))
	if err != nil {
		return fmt.Errorf("creating manifest: %w", err)
	}
	enc := json.NewEncoder(mf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		mf.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	return mf.Close()
}

// Publish atomically points CURRENT at the given bundle.
func (s *Store) Publish(_ context.Context, bundleID string) error {
	if _, err := os.Stat(filepath.Join(s.dir, bundleID, manifestFile)); err != nil {
		return fmt.Errorf("bundle %s: %w", bundleID, domain.ErrBundleNotFound)
	}

	tmp := filepath.Join(s.dir, ".CURRENT.tmp")
	if err := os.WriteFile(tmp, []byte(bundleID+"\n"), 0o600); err != nil {
		return fmt.Errorf("staging CURRENT: %w", err)
	}
	if err := os.Rename(tmp, s.CurrentPath()); err != nil {
		return fmt.Errorf("publishing bundle %s: %w", bundleID, err)
	}

	logger.Info("Published bundle %s", bundleID)
	return nil
}

// CurrentID returns the published bundle ID.
func (s *Store) CurrentID(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.CurrentPath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.ErrBundleNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading CURRENT: %w", err)
	}

	id := strings.TrimSpace(string(raw))
	if id == "" {
		return "", domain.ErrBundleNotFound
	}
	return id, nil
}

// LoadCurrent reads and validates the published bundle.
func (s *Store) LoadCurrent(ctx context.Context) (*driven.IndexBundle, error) {
	id, err := s.CurrentID(ctx)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, id)
}

// Load reads the bundle with the given ID and verifies that its four
// artifacts agree before returning it. Nothing partial is ever served.
func (s *Store) Load(ctx context.Context, bundleID string) (*driven.IndexBundle, error) {
	dir := filepath.Join(s.dir, bundleID)

	manifest, err := s.readManifest(dir)
	if err != nil {
		return nil, err
	}

	df, err := os.Open(filepath.Join(dir, denseFile))
	if err != nil {
		return nil, fmt.Errorf("bundle %s: opening dense artifact: %w", bundleID, domain.ErrBundleCorrupt)
	}
	denseIdx, err := dense.Read(df)
	df.Close()
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", bundleID, err)
	}

	sf, err := os.Open(filepath.Join(dir, sparseFile))
	if err != nil {
		return nil, fmt.Errorf("bundle %s: opening sparse artifact: %w", bundleID, domain.ErrBundleCorrupt)
	}
	sparseIdx, err := sparse.Read(sf)
	sf.Close()
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", bundleID, err)
	}

	store, err := sqlite.Open(filepath.Join(dir, chunksFile))
	if err != nil {
		return nil, fmt.Errorf("bundle %s: opening chunk table: %w", bundleID, domain.ErrBundleCorrupt)
	}
	defer store.Close() //nolint:errcheck

	chunks, err := store.LoadChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: reading chunk table: %w", bundleID, err)
	}
	documents, err := store.LoadDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: reading document table: %w", bundleID, err)
	}

	if err := validate(manifest, denseIdx.Len(), sparseIdx.Len(), chunks, len(documents)); err != nil {
		return nil, fmt.Errorf("bundle %s: %w", bundleID, err)
	}

	logger.Debug("Loaded bundle %s: %d chunks, dim %d",
		bundleID, len(chunks), manifest.EmbeddingDimension)

	return &driven.IndexBundle{
		Manifest:  manifest,
		Dense:     denseIdx,
		Sparse:    sparseIdx,
		Chunks:    chunks,
		Documents: documents,
	}, nil
}

func (s *Store) readManifest(dir string) (domain.BundleManifest, error) {
	var manifest domain.BundleManifest

	raw, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return manifest, domain.ErrBundleNotFound
	}
	if err != nil {
		return manifest, fmt.Errorf("reading manifest: %w", err)
	}

	if err := json.Unmarshal(raw, &manifest); err != nil {
		return manifest, fmt.Errorf("parsing manifest: %w", domain.ErrBundleCorrupt)
	}
	if manifest.FormatVersion != domain.ManifestFormatVersion {
		return manifest, fmt.Errorf("manifest format version %d, want %d: %w",
			manifest.FormatVersion, domain.ManifestFormatVersion, domain.ErrBundleIncompatible)
	}
	return manifest, nil
}

// validate checks cross-artifact consistency: every vector and sparse
// entry maps to exactly one chunk, seq positions are dense and the
// manifest counts agree.
func validate(m domain.BundleManifest, denseLen, sparseLen int, chunks []domain.Chunk, docCount int) error {
	if denseLen != len(chunks) || sparseLen != len(chunks) {
		return fmt.Errorf("artifact sizes disagree (dense %d, sparse %d, chunks %d): %w",
			denseLen, sparseLen, len(chunks), domain.ErrBundleCorrupt)
	}
	if m.ChunkCount != len(chunks) || m.DocumentCount != docCount {
		return fmt.Errorf("manifest counts disagree with tables: %w", domain.ErrBundleCorrupt)
	}
	for i, c := range chunks {
		if c.Seq != i {
			return fmt.Errorf("chunk %s at row %d has seq %d: %w", c.ID, i, c.Seq, domain.ErrBundleCorrupt)
		}
	}
	return nil
}
