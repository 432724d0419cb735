package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lexra-labs/lexra-cli/internal/chunker"
	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driving"
	"github.com/lexra-labs/lexra-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService builds and publishes index bundles.
type IngestService struct {
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	store    driven.BundleStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	cfg domain.EngineConfig,
	embedder driven.EmbeddingService,
	store driven.BundleStore,
) *IngestService {
	return &IngestService{
		chunker: chunker.New(
			chunker.WithChunkSize(cfg.ChunkSize),
			chunker.WithOverlap(cfg.ChunkOverlap),
		),
		embedder: embedder,
		store:    store,
	}
}

// Build chunks the inputs, embeds every chunk and persists the result
// as a new published bundle. Documents with no extractable text are
// skipped and reported; any embedding failure aborts the whole build
// and leaves the previously published bundle untouched.
func (s *IngestService) Build(
	ctx context.Context, inputs []domain.DocumentInput,
) (*driving.BuildReport, error) {
	logger.Section("Bundle Build")
	logger.Info("Building from %d document(s)", len(inputs))

	documents, chunks, skipped, err := s.chunkInputs(inputs)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("build: no chunks from %d document(s): %w",
			len(inputs), domain.ErrEmptyChunkSet)
	}

	logger.Info("Chunked into %d chunk(s), %d document(s) skipped", len(chunks), len(skipped))

	vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	artifacts := &driven.BuildArtifacts{
		Manifest: domain.BundleManifest{
			EmbeddingModel:     s.embedder.ModelName(),
			EmbeddingDimension: s.embedder.Dimensions(),
		},
		Vectors:   vectors,
		Chunks:    chunks,
		Documents: documents,
	}

	bundleID, err := s.store.Save(ctx, artifacts)
	if err != nil {
		return nil, fmt.Errorf("build: save bundle: %w", err)
	}

	if err := s.store.Publish(ctx, bundleID); err != nil {
		return nil, fmt.Errorf("build: publish bundle %s: %w", bundleID, err)
	}

	return &driving.BuildReport{
		BundleID:      bundleID,
		DocumentCount: len(documents),
		ChunkCount:    len(chunks),
		Skipped:       skipped,
	}, nil
}

// chunkInputs splits every input into chunks with bundle-wide
// sequence numbers. Empty documents are skipped, not fatal.
func (s *IngestService) chunkInputs(
	inputs []domain.DocumentInput,
) ([]domain.Document, []domain.Chunk, []string, error) {
	var (
		documents []domain.Document
		chunks    []domain.Chunk
		skipped   []string
	)

	for _, input := range inputs {
		docID := uuid.New().String()

		docChunks, err := s.chunker.Split(docID, input)
		if err != nil {
			if errors.Is(err, domain.ErrNoExtractableText) {
				logger.Warn("Skipping %q: no extractable text", input.Label)
				skipped = append(skipped, input.Label)
				continue
			}
			return nil, nil, nil, fmt.Errorf("chunk %q: %w", input.Label, err)
		}

		pageCount := 0
		if n := len(input.Pages); n > 0 {
			pageCount = input.Pages[n-1].Page
		}

		documents = append(documents, domain.Document{
			ID:         docID,
			Label:      input.Label,
			SourcePath: input.SourcePath,
			PageCount:  pageCount,
			IngestedAt: time.Now().UTC(),
		})

		// Seq is assigned across the whole bundle, not per document.
		for i := range docChunks {
			docChunks[i].Seq = len(chunks) + i
		}
		chunks = append(chunks, docChunks...)

		logger.Debug("Chunked %q: %d chunk(s)", input.Label, len(docChunks))
	}

	return documents, chunks, skipped, nil
}

// embedChunks embeds every chunk and verifies the dimension matches
// the configured embedding function.
func (s *IngestService) embedChunks(
	ctx context.Context, chunks []domain.Chunk,
) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	logger.Debug("Embedding %d chunk(s) with %s", len(texts), s.embedder.ModelName())

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("build: %w: %w", domain.ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("build: %d embeddings for %d chunks: %w",
			len(vectors), len(chunks), domain.ErrEmbeddingFailed)
	}

	dim := s.embedder.Dimensions()
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("build: chunk %s embedded to %d dimensions, want %d: %w",
				chunks[i].ID, len(v), dim, domain.ErrDimensionMismatch)
		}
	}

	return vectors, nil
}
