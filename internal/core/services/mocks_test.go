package services

import (
	"context"
	"fmt"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	dims      int
	model     string
	calls     int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.vector()
	}
	return result, nil
}

func (m *mockEmbeddingService) vector() []float32 {
	if m.embedding != nil {
		return m.embedding
	}
	return make([]float32, m.Dimensions())
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 4
}

func (m *mockEmbeddingService) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	searchErr error
	dims      int
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int {
	return len(m.hits)
}

func (m *mockVectorIndex) Dimensions() int {
	return m.dims
}

// mockSparseIndex implements driven.SparseIndex for testing.
type mockSparseIndex struct {
	hits      []driven.SparseHit
	searchErr error
}

func (m *mockSparseIndex) Search(_ context.Context, _ string, k int) ([]driven.SparseHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockSparseIndex) Len() int {
	return len(m.hits)
}

// mockBundleStore implements driven.BundleStore for testing.
type mockBundleStore struct {
	saved      *driven.BuildArtifacts
	savedID    string
	published  string
	saveErr    error
	publishErr error
	current    *driven.IndexBundle
	currentErr error
}

func (m *mockBundleStore) Save(_ context.Context, artifacts *driven.BuildArtifacts) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saved = artifacts
	if m.savedID == "" {
		m.savedID = "bundle-1"
	}
	return m.savedID, nil
}

func (m *mockBundleStore) Publish(_ context.Context, bundleID string) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = bundleID
	return nil
}

func (m *mockBundleStore) Load(_ context.Context, bundleID string) (*driven.IndexBundle, error) {
	if m.current == nil || m.current.Manifest.BundleID != bundleID {
		return nil, domain.ErrBundleNotFound
	}
	return m.current, nil
}

func (m *mockBundleStore) LoadCurrent(_ context.Context) (*driven.IndexBundle, error) {
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	if m.current == nil {
		return nil, domain.ErrBundleNotFound
	}
	return m.current, nil
}

func (m *mockBundleStore) CurrentID(_ context.Context) (string, error) {
	if m.current == nil {
		return "", domain.ErrBundleNotFound
	}
	return m.current.Manifest.BundleID, nil
}

// mockWatcher implements driven.BundleWatcher for testing. It fires
// onChange once per queued notification, then blocks until cancelled.
type mockWatcher struct {
	notifications int
}

func (m *mockWatcher) Watch(ctx context.Context, onChange func()) error {
	for i := 0; i < m.notifications; i++ {
		onChange()
	}
	<-ctx.Done()
	return ctx.Err()
}

// staticProvider hands out a fixed bundle.
type staticProvider struct {
	bundle *driven.IndexBundle
	err    error
}

func (p *staticProvider) Current() (*driven.IndexBundle, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.bundle, nil
}

// sequencedProvider hands out a different bundle on every call,
// simulating a hot reload landing between snapshots.
type sequencedProvider struct {
	bundles []*driven.IndexBundle
	calls   int
}

func (p *sequencedProvider) Current() (*driven.IndexBundle, error) {
	i := p.calls
	if i >= len(p.bundles) {
		i = len(p.bundles) - 1
	}
	p.calls++
	return p.bundles[i], nil
}

// testBundle builds an in-memory bundle with n chunks belonging to a
// single document, plus the given mock search structures.
func testBundle(n int, dense *mockVectorIndex, sparse *mockSparseIndex) *driven.IndexBundle {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("doc-1:%d", i*100),
			DocumentID: "doc-1",
			Seq:        i,
			Page:       i + 1,
			Content:    fmt.Sprintf("chunk %d content", i),
		}
	}

	return &driven.IndexBundle{
		Manifest: domain.BundleManifest{
			FormatVersion:      domain.ManifestFormatVersion,
			BundleID:           "bundle-1",
			DocumentCount:      1,
			ChunkCount:         n,
			EmbeddingModel:     "mock-embed",
			EmbeddingDimension: 4,
		},
		Dense:  dense,
		Sparse: sparse,
		Chunks: chunks,
		Documents: []domain.Document{
			{ID: "doc-1", Label: "regulations.txt"},
		},
	}
}
