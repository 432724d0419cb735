package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// GroundInput is the input schema for the ground tool.
type GroundInput struct {
	Query string `json:"query" jsonschema:"the question to ground in the indexed corpus"`
}

// GroundOutput is the output schema for the ground tool.
type GroundOutput struct {
	// ContextFound is false when nothing relevant was retrieved.
	// The caller must not answer from its own knowledge in that case.
	ContextFound bool              `json:"context_found"`
	ContextBlock string            `json:"context_block,omitempty"`
	Citations    map[string]string `json:"citations,omitempty"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query  string `json:"query" jsonschema:"the search query"`
	KFinal int    `json:"k_final,omitempty" jsonschema:"maximum number of fused results to return"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []RetrieveResultOutput `json:"results"`
	Count   int                    `json:"count"`
}

// RetrieveResultOutput represents a single fused retrieval result.
type RetrieveResultOutput struct {
	ChunkID    string  `json:"chunk_id"`
	FusedScore float64 `json:"fused_score"`
	FusedRank  int     `json:"fused_rank"`
	DenseRank  int     `json:"dense_rank,omitempty"`
	SparseRank int     `json:"sparse_rank,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ground",
		Description: "Retrieve citation-tagged context for a question from the indexed corpus. Refuses when nothing relevant exists.",
	}, s.handleGround)

	if s.ports.Retrieve != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "retrieve",
			Description: "Run hybrid retrieval and return the fused ranking without grounding",
		}, s.handleRetrieve)
	}
}

// handleGround handles the ground tool invocation.
func (s *Server) handleGround(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GroundInput,
) (*mcp.CallToolResult, GroundOutput, error) {
	grounding, err := s.ports.Ground.Ground(ctx, input.Query)
	if err != nil {
		if errors.Is(err, domain.ErrBundleNotFound) {
			return nil, GroundOutput{}, errors.New("no index bundle published yet, run ingest first")
		}
		return nil, GroundOutput{}, err
	}

	return nil, GroundOutput{
		ContextFound: grounding.ContextFound,
		ContextBlock: grounding.ContextBlock,
		Citations:    grounding.Citations,
	}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	opts := domain.RetrievalOptions{KFinal: input.KFinal}
	set, err := s.ports.Retrieve.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]RetrieveResultOutput, len(set.Results)),
		Count:   len(set.Results),
	}

	for i, r := range set.Results {
		output.Results[i] = RetrieveResultOutput{
			ChunkID:    r.ChunkID,
			FusedScore: r.FusedScore,
			FusedRank:  r.FusedRank,
			DenseRank:  r.DenseRank,
			SparseRank: r.SparseRank,
		}
	}

	return nil, output, nil
}
