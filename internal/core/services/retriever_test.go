package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
)

// retrieveFixture wires a retrieve service over an in-memory bundle.
func retrieveFixture(dense *mockVectorIndex, sparse *mockSparseIndex) *RetrieveService {
	bundle := testBundle(4, dense, sparse)
	return NewRetrieveService(
		domain.DefaultEngineConfig(),
		&staticProvider{bundle: bundle},
		&mockEmbeddingService{},
	)
}

func TestRetrieveFusesBothPaths(t *testing.T) {
	// Chunk 0 is ranked first by both paths; chunks 1 and 2 each
	// appear on a single path.
	dense := &mockVectorIndex{hits: []driven.VectorHit{
		{Seq: 0, Similarity: 0.9},
		{Seq: 1, Similarity: 0.8},
	}}
	sparse := &mockSparseIndex{hits: []driven.SparseHit{
		{Seq: 0, Score: 5.0},
		{Seq: 2, Score: 3.0},
	}}
	svc := retrieveFixture(dense, sparse)

	set, err := svc.Retrieve(context.Background(), "parking hours", domain.RetrievalOptions{})
	require.NoError(t, err)
	require.Len(t, set.Results, 3)

	// First by both paths strictly outranks first by one path.
	top := set.Results[0]
	assert.Equal(t, "doc-1:0", top.ChunkID)
	assert.Equal(t, 1, top.DenseRank)
	assert.Equal(t, 1, top.SparseRank)
	assert.InDelta(t, 2.0/61.0, top.FusedScore, 1e-12)
	assert.Greater(t, top.FusedScore, set.Results[1].FusedScore)

	// Fused ranks are sequential from 1.
	for i, r := range set.Results {
		assert.Equal(t, i+1, r.FusedRank)
	}

	// Raw path scores surface for the gate; the best BM25 score of
	// 5.0 saturates to 5/6.
	assert.InDelta(t, 0.9, set.BestCosine, 1e-12)
	assert.InDelta(t, 5.0/6.0, set.BestBM25, 1e-12)
}

func TestRetrieveTieBreakIsDeterministic(t *testing.T) {
	// Chunks 1 and 2 fuse to the same score (rank 2 on one path
	// each); the lower chunk ID wins.
	dense := &mockVectorIndex{hits: []driven.VectorHit{
		{Seq: 0, Similarity: 0.9},
		{Seq: 1, Similarity: 0.8},
	}}
	sparse := &mockSparseIndex{hits: []driven.SparseHit{
		{Seq: 0, Score: 5.0},
		{Seq: 2, Score: 3.0},
	}}
	svc := retrieveFixture(dense, sparse)

	for i := 0; i < 10; i++ {
		set, err := svc.Retrieve(context.Background(), "query", domain.RetrievalOptions{})
		require.NoError(t, err)
		require.Len(t, set.Results, 3)
		assert.InDelta(t, set.Results[1].FusedScore, set.Results[2].FusedScore, 1e-12)
		assert.Equal(t, "doc-1:100", set.Results[1].ChunkID)
		assert.Equal(t, "doc-1:200", set.Results[2].ChunkID)
	}
}

func TestRetrieveWeightsScaleContributions(t *testing.T) {
	dense := &mockVectorIndex{hits: []driven.VectorHit{
		{Seq: 1, Similarity: 0.8},
	}}
	sparse := &mockSparseIndex{hits: []driven.SparseHit{
		{Seq: 2, Score: 3.0},
	}}

	cfg := domain.DefaultEngineConfig()
	cfg.DenseWeight = 3.0
	bundle := testBundle(4, dense, sparse)
	svc := NewRetrieveService(cfg, &staticProvider{bundle: bundle}, &mockEmbeddingService{})

	set, err := svc.Retrieve(context.Background(), "query", domain.RetrievalOptions{})
	require.NoError(t, err)
	require.Len(t, set.Results, 2)

	// Same rank on each path, but the dense path carries triple weight.
	assert.Equal(t, "doc-1:100", set.Results[0].ChunkID)
	assert.InDelta(t, 3.0/61.0, set.Results[0].FusedScore, 1e-12)
	assert.InDelta(t, 1.0/61.0, set.Results[1].FusedScore, 1e-12)
}

func TestRetrieveTruncatesToFinalSize(t *testing.T) {
	dense := &mockVectorIndex{hits: []driven.VectorHit{
		{Seq: 0, Similarity: 0.9},
		{Seq: 1, Similarity: 0.8},
		{Seq: 2, Similarity: 0.7},
	}}
	sparse := &mockSparseIndex{hits: []driven.SparseHit{
		{Seq: 3, Score: 2.0},
	}}
	svc := retrieveFixture(dense, sparse)

	set, err := svc.Retrieve(context.Background(), "query", domain.RetrievalOptions{KFinal: 2})
	require.NoError(t, err)
	assert.Len(t, set.Results, 2)
}

func TestRetrieveEmptyQuery(t *testing.T) {
	svc := retrieveFixture(&mockVectorIndex{}, &mockSparseIndex{})

	for _, query := range []string{"", "   ", "?!,."} {
		set, err := svc.Retrieve(context.Background(), query, domain.RetrievalOptions{})
		require.NoError(t, err)
		assert.Empty(t, set.Results)
	}
}

func TestRetrieveEmptyResultIsNotAnError(t *testing.T) {
	svc := retrieveFixture(&mockVectorIndex{}, &mockSparseIndex{})

	set, err := svc.Retrieve(context.Background(), "nothing matches", domain.RetrievalOptions{})
	require.NoError(t, err)
	assert.Empty(t, set.Results)
	assert.Zero(t, set.BestCosine)
	assert.Zero(t, set.BestBM25)
}

func TestRetrieveFailsWhenOnePathFails(t *testing.T) {
	t.Run("dense path", func(t *testing.T) {
		svc := retrieveFixture(
			&mockVectorIndex{searchErr: errors.New("index corrupt")},
			&mockSparseIndex{hits: []driven.SparseHit{{Seq: 0, Score: 1.0}}},
		)

		_, err := svc.Retrieve(context.Background(), "query", domain.RetrievalOptions{})
		assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
	})

	t.Run("sparse path", func(t *testing.T) {
		svc := retrieveFixture(
			&mockVectorIndex{hits: []driven.VectorHit{{Seq: 0, Similarity: 0.9}}},
			&mockSparseIndex{searchErr: errors.New("index corrupt")},
		)

		_, err := svc.Retrieve(context.Background(), "query", domain.RetrievalOptions{})
		assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
	})

	t.Run("query embedding", func(t *testing.T) {
		bundle := testBundle(4, &mockVectorIndex{}, &mockSparseIndex{})
		svc := NewRetrieveService(
			domain.DefaultEngineConfig(),
			&staticProvider{bundle: bundle},
			&mockEmbeddingService{embedErr: errors.New("connection refused")},
		)

		_, err := svc.Retrieve(context.Background(), "query", domain.RetrievalOptions{})
		assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
		assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
	})
}

func TestRetrieveFailsWithoutBundle(t *testing.T) {
	svc := NewRetrieveService(
		domain.DefaultEngineConfig(),
		&staticProvider{err: domain.ErrBundleNotFound},
		&mockEmbeddingService{},
	)

	_, err := svc.Retrieve(context.Background(), "query", domain.RetrievalOptions{})
	assert.ErrorIs(t, err, domain.ErrBundleNotFound)
}
