package dense

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

func TestBuild(t *testing.T) {
	t.Run("empty vector set", func(t *testing.T) {
		_, err := Build(4, nil)
		assert.ErrorIs(t, err, domain.ErrEmptyChunkSet)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := Build(4, [][]float32{{1, 0, 0}})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("normalizes vectors", func(t *testing.T) {
		idx, err := Build(2, [][]float32{{3, 4}})
		require.NoError(t, err)

		v := idx.Vectors()[0]
		assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
		assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
	})
}

func TestSearch(t *testing.T) {
	idx, err := Build(3, [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	})
	require.NoError(t, err)

	t.Run("orders by similarity", func(t *testing.T) {
		hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, hits, 3)

		assert.Equal(t, 0, hits[0].Seq)
		assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
		assert.Equal(t, 2, hits[1].Seq)
		assert.Equal(t, 1, hits[2].Seq)
	})

	t.Run("truncates to k", func(t *testing.T) {
		hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("k beyond corpus returns all", func(t *testing.T) {
		hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 50)
		require.NoError(t, err)
		assert.Len(t, hits, 3)
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := idx.Search(context.Background(), []float32{1, 0}, 3)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("deterministic ordering on ties", func(t *testing.T) {
		tied, err := Build(2, [][]float32{{0, 1}, {0, 1}, {0, 1}})
		require.NoError(t, err)

		hits, err := tied.Search(context.Background(), []float32{0, 1}, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, []int{hits[0].Seq, hits[1].Seq, hits[2].Seq})
	})
}

func TestCodecRoundTrip(t *testing.T) {
	idx, err := Build(3, [][]float32{
		{1, 0, 0},
		{0, 0.5, 0.5},
		{0.2, 0.3, 0.4},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, idx.Write(&buf))

	loaded, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, idx.Len(), loaded.Len())
	assert.Equal(t, idx.Dimensions(), loaded.Dimensions())
	assert.Equal(t, idx.Vectors(), loaded.Vectors())
}

func TestReadRejectsBadInput(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte("not an index")))
		assert.ErrorIs(t, err, domain.ErrBundleCorrupt)
	})

	t.Run("future format version", func(t *testing.T) {
		idx, err := Build(2, [][]float32{{1, 0}})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, idx.Write(&buf))

		raw := buf.Bytes()
		raw[4] = 99 // bump the version field

		_, err = Read(bytes.NewReader(raw))
		assert.ErrorIs(t, err, domain.ErrBundleIncompatible)
	})

	t.Run("truncated matrix", func(t *testing.T) {
		idx, err := Build(2, [][]float32{{1, 0}, {0, 1}})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, idx.Write(&buf))

		_, err = Read(bytes.NewReader(buf.Bytes()[:len(buf.Bytes())-4]))
		assert.ErrorIs(t, err, domain.ErrBundleCorrupt)
	})
}
