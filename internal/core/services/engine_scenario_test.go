package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
	"github.com/lexra-labs/lexra-cli/internal/index/dense"
	"github.com/lexra-labs/lexra-cli/internal/index/sparse"
)

// wordEmbedder embeds text as a bag-of-words vector over a tiny fixed
// vocabulary, so dense similarity behaves predictably without a real
// embedding provider.
type wordEmbedder struct {
	vocab []string
}

func (e *wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, len(e.vocab))
	lower := strings.ToLower(text)
	for i, w := range e.vocab {
		if strings.Contains(lower, w) {
			v[i] = 1
		}
	}
	return v, nil
}

func (e *wordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = e.Embed(ctx, t)
	}
	return out, nil
}

func (e *wordEmbedder) Dimensions() int            { return len(e.vocab) }
func (e *wordEmbedder) ModelName() string          { return "word-embed" }
func (e *wordEmbedder) Ping(context.Context) error { return nil }
func (e *wordEmbedder) Close() error               { return nil }

// scenarioFixture wires real dense and sparse structures into the
// retrieval and grounding services over a two-chunk corpus.
func scenarioFixture(t *testing.T) (*RetrieveService, *GroundService, *wordEmbedder) {
	t.Helper()

	chunks := []domain.Chunk{
		{
			ID:         "doc-1:0",
			DocumentID: "doc-1",
			Seq:        0,
			Page:       1,
			Content:    "Article 3: parking hours are 7am to 8pm.",
		},
		{
			ID:         "doc-1:40",
			DocumentID: "doc-1",
			Seq:        1,
			Page:       1,
			Content:    "Article 4: penalties for violations.",
		},
	}

	embedder := &wordEmbedder{vocab: []string{"parking", "hours", "penalties", "subscription"}}

	vectors, err := embedder.EmbedBatch(context.Background(), []string{
		chunks[0].Content, chunks[1].Content,
	})
	require.NoError(t, err)

	denseIdx, err := dense.Build(embedder.Dimensions(), vectors)
	require.NoError(t, err)

	sparseIdx, err := sparse.Build([]string{chunks[0].Content, chunks[1].Content})
	require.NoError(t, err)

	bundle := &driven.IndexBundle{
		Manifest: domain.BundleManifest{
			FormatVersion:      domain.ManifestFormatVersion,
			BundleID:           "bundle-1",
			DocumentCount:      1,
			ChunkCount:         len(chunks),
			EmbeddingModel:     embedder.ModelName(),
			EmbeddingDimension: embedder.Dimensions(),
		},
		Dense:     denseIdx,
		Sparse:    sparseIdx,
		Chunks:    chunks,
		Documents: []domain.Document{{ID: "doc-1", Label: "regulations.txt"}},
	}

	provider := &staticProvider{bundle: bundle}
	cfg := domain.DefaultEngineConfig()

	retriever := NewRetrieveService(cfg, provider, embedder)
	grounder := NewGroundService(cfg, retriever, provider)
	return retriever, grounder, embedder
}

func TestScenarioRelevantQuestionIsGrounded(t *testing.T) {
	_, grounder, _ := scenarioFixture(t)

	grounding, err := grounder.Ground(context.Background(), "what are the parking hours")
	require.NoError(t, err)

	assert.True(t, grounding.ContextFound)
	assert.Contains(t, grounding.ContextBlock, "[[CIT_1]]: Article 3: parking hours")
	assert.Equal(t, "regulations.txt (page 1)", grounding.Citations["[[CIT_1]]"])
}

func TestScenarioIrrelevantQuestionIsRefused(t *testing.T) {
	_, grounder, _ := scenarioFixture(t)

	grounding, err := grounder.Ground(context.Background(), "price of a platinum subscription")
	require.NoError(t, err)

	assert.False(t, grounding.ContextFound)
	assert.Empty(t, grounding.ContextBlock)
	assert.Empty(t, grounding.Citations)
}

func TestScenarioRetrieveRanksLexicalMatchFirst(t *testing.T) {
	retriever, _, _ := scenarioFixture(t)

	set, err := retriever.Retrieve(context.Background(), "parking hours", domain.RetrievalOptions{})
	require.NoError(t, err)

	require.NotEmpty(t, set.Results)
	assert.Equal(t, "doc-1:0", set.Results[0].ChunkID)
	for i := 1; i < len(set.Results); i++ {
		assert.LessOrEqual(t, set.Results[i].FusedScore, set.Results[i-1].FusedScore)
	}
}
