package driving

import (
	"context"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// BuildReport summarises one bundle build.
type BuildReport struct {
	// BundleID identifies the published bundle.
	BundleID string

	// DocumentCount and ChunkCount are the ingested table sizes.
	DocumentCount int
	ChunkCount    int

	// Skipped lists labels of documents rejected for yielding no
	// extractable text. Skipping one document never aborts the batch.
	Skipped []string
}

// IngestService builds and publishes index bundles.
type IngestService interface {
	// Build chunks the inputs, embeds every chunk, constructs the
	// dense and sparse indexes and persists them as one bundle.
	// Any embedding or index failure aborts the whole build and
	// leaves the previously published bundle untouched.
	Build(ctx context.Context, inputs []domain.DocumentInput) (*BuildReport, error)
}
