package driving

import (
	"context"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// RetrieveService performs hybrid retrieval against the current bundle.
type RetrieveService interface {
	// Retrieve embeds the query, runs the dense and sparse searches
	// and fuses their rankings via reciprocal rank fusion. An empty
	// result set is a valid outcome, not an error; an error means the
	// engine could not search at all.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) (*domain.RetrievalSet, error)
}

// GroundService is the entire boundary a calling agent depends on.
type GroundService interface {
	// Ground retrieves for the query and assembles the fused, gated
	// result set into a citation-tagged context block. When the gate
	// fails, ContextFound is false and the caller must not invoke any
	// generative step.
	Ground(ctx context.Context, query string) (*domain.Grounding, error)
}
