package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

func TestServer_handleGround(t *testing.T) {
	ctx := context.Background()

	t.Run("returns grounded context", func(t *testing.T) {
		mockGround := &mockGroundService{
			grounding: &domain.Grounding{
				ContextFound: true,
				ContextBlock: "[[CIT_1]]: Parking is permitted between 7am and 8pm.",
				Citations: map[string]string{
					"[[CIT_1]]": "regulations.txt (page 2)",
				},
			},
		}

		server, err := NewServer(&Ports{Ground: mockGround})
		require.NoError(t, err)

		input := GroundInput{Query: "when can I park?"}
		_, output, err := server.handleGround(ctx, nil, input)

		require.NoError(t, err)
		assert.True(t, output.ContextFound)
		assert.Contains(t, output.ContextBlock, "[[CIT_1]]")
		assert.Equal(t, "regulations.txt (page 2)", output.Citations["[[CIT_1]]"])
	})

	t.Run("gate refusal surfaces as context_found false", func(t *testing.T) {
		mockGround := &mockGroundService{
			grounding: &domain.Grounding{ContextFound: false},
		}

		server, err := NewServer(&Ports{Ground: mockGround})
		require.NoError(t, err)

		_, output, err := server.handleGround(ctx, nil, GroundInput{Query: "off topic"})

		require.NoError(t, err)
		assert.False(t, output.ContextFound)
		assert.Empty(t, output.ContextBlock)
	})

	t.Run("missing bundle produces guidance", func(t *testing.T) {
		mockGround := &mockGroundService{err: domain.ErrBundleNotFound}

		server, err := NewServer(&Ports{Ground: mockGround})
		require.NoError(t, err)

		_, _, err = server.handleGround(ctx, nil, GroundInput{Query: "anything"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ingest")
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		mockGround := &mockGroundService{err: errors.New("retrieval failed")}

		server, err := NewServer(&Ports{Ground: mockGround})
		require.NoError(t, err)

		_, _, err = server.handleGround(ctx, nil, GroundInput{Query: "anything"})
		require.Error(t, err)
	})
}

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns fused ranking", func(t *testing.T) {
		mockRetrieve := &mockRetrieveService{
			set: &domain.RetrievalSet{
				Results: []domain.FusedResult{
					{ChunkID: "doc-1:0", FusedScore: 0.0328, FusedRank: 1, DenseRank: 1, SparseRank: 1},
					{ChunkID: "doc-1:450", FusedScore: 0.0161, FusedRank: 2, SparseRank: 2},
				},
			},
		}

		server, err := NewServer(&Ports{
			Ground:   &mockGroundService{},
			Retrieve: mockRetrieve,
		})
		require.NoError(t, err)

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{Query: "parking"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "doc-1:0", output.Results[0].ChunkID)
		assert.Equal(t, 1, output.Results[0].FusedRank)
		assert.Equal(t, 0, output.Results[1].DenseRank)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Ground:   &mockGroundService{},
			Retrieve: &mockRetrieveService{err: errors.New("no bundle")},
		})
		require.NoError(t, err)

		_, _, err = server.handleRetrieve(ctx, nil, RetrieveInput{Query: "parking"})
		require.Error(t, err)
	})
}
