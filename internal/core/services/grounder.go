package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driving"
	"github.com/lexra-labs/lexra-cli/internal/logger"
)

// Ensure GroundService implements the interface.
var _ driving.GroundService = (*GroundService)(nil)

// GroundService retrieves for a query and assembles the result into a
// citation-tagged context block, refusing when nothing relevant was
// found. It is the entire boundary a calling agent depends on.
type GroundService struct {
	retriever *RetrieveService
	provider  BundleProvider
	cfg       domain.EngineConfig
}

// NewGroundService creates a new ground service.
func NewGroundService(
	cfg domain.EngineConfig,
	retriever *RetrieveService,
	provider BundleProvider,
) *GroundService {
	return &GroundService{
		retriever: retriever,
		provider:  provider,
		cfg:       cfg.Normalized(),
	}
}

// Ground retrieves for the query and gates the result on the
// configured relevance metric. When the gate fails, ContextFound is
// false and the caller must not invoke any generative step.
//
// The bundle is snapshotted exactly once: retrieval and assembly run
// against the same bundle even when a reload lands mid-query.
func (s *GroundService) Ground(ctx context.Context, query string) (*domain.Grounding, error) {
	bundle, err := s.provider.Current()
	if err != nil {
		return nil, err
	}

	set, err := s.retriever.searchBundle(ctx, bundle, query, domain.RetrievalOptions{})
	if err != nil {
		return nil, err
	}

	if len(set.Results) == 0 {
		logger.Info("Grounding: no candidates retrieved")
		return &domain.Grounding{ContextFound: false}, nil
	}

	value := s.gateValue(set)
	if value < s.cfg.RelevanceThreshold {
		logger.Info("Grounding: gate failed (%s %.4f < %.4f)",
			s.cfg.RelevanceMetric, value, s.cfg.RelevanceThreshold)
		return &domain.Grounding{ContextFound: false}, nil
	}

	logger.Debug("Grounding: gate passed (%s %.4f)", s.cfg.RelevanceMetric, value)

	return s.assemble(bundle, set)
}

// gateValue extracts the configured metric's best value from the set.
func (s *GroundService) gateValue(set *domain.RetrievalSet) float64 {
	switch s.cfg.RelevanceMetric {
	case domain.GateMetricBM25:
		return set.BestBM25
	case domain.GateMetricFused:
		return set.Results[0].FusedScore
	default:
		return set.BestCosine
	}
}

// assemble builds the context block and citation map in fused order
// from the bundle the results were retrieved against. Citation tags
// are numbered from 1 with no gaps.
func (s *GroundService) assemble(
	bundle *driven.IndexBundle, set *domain.RetrievalSet,
) (*domain.Grounding, error) {
	var block strings.Builder
	citations := make(map[string]string, len(set.Results))

	for i, result := range set.Results {
		chunk, ok := bundle.ChunkByID(result.ChunkID)
		if !ok {
			return nil, fmt.Errorf("grounding: chunk %s not in bundle: %w",
				result.ChunkID, domain.ErrBundleCorrupt)
		}

		label := chunk.DocumentID
		if doc, ok := bundle.DocumentByID(chunk.DocumentID); ok {
			label = doc.Label
		}

		tag := domain.CitationTag(i + 1)
		citations[tag] = domain.CitationRef(label, chunk.Page)

		if i > 0 {
			block.WriteString("\n\n")
		}
		block.WriteString(tag)
		block.WriteString(": ")
		block.WriteString(chunk.Content)
	}

	return &domain.Grounding{
		ContextFound: true,
		ContextBlock: block.String(),
		Citations:    citations,
	}, nil
}
