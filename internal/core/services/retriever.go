package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driving"
	"github.com/lexra-labs/lexra-cli/internal/index/sparse"
	"github.com/lexra-labs/lexra-cli/internal/logger"
)

// Ensure RetrieveService implements the interface.
var _ driving.RetrieveService = (*RetrieveService)(nil)

// BundleProvider hands out the bundle queries should run against.
// The lifecycle service implements it; tests substitute their own.
type BundleProvider interface {
	Current() (*driven.IndexBundle, error)
}

// candidate carries one path's ranked hit into fusion.
type candidate struct {
	seq   int
	rank  int // 1-based
	score float64
}

// RetrieveService performs hybrid retrieval: dense and sparse search
// over the current bundle, fused by reciprocal rank fusion.
type RetrieveService struct {
	provider BundleProvider
	embedder driven.EmbeddingService
	cfg      domain.EngineConfig
}

// NewRetrieveService creates a new retrieve service.
func NewRetrieveService(
	cfg domain.EngineConfig,
	provider BundleProvider,
	embedder driven.EmbeddingService,
) *RetrieveService {
	return &RetrieveService{
		provider: provider,
		embedder: embedder,
		cfg:      cfg.Normalized(),
	}
}

// Retrieve runs both retrieval paths in parallel and fuses their
// rankings. A failure on either path fails the whole query; the
// engine never silently degrades to single-path results.
func (s *RetrieveService) Retrieve(
	ctx context.Context, query string, opts domain.RetrievalOptions,
) (*domain.RetrievalSet, error) {
	bundle, err := s.provider.Current()
	if err != nil {
		return nil, err
	}
	return s.searchBundle(ctx, bundle, query, opts)
}

// searchBundle runs the retrieval paths against one specific bundle.
// Callers that assemble results afterwards use this with their own
// snapshot, so a reload landing mid-query cannot split the query
// across two bundles.
func (s *RetrieveService) searchBundle(
	ctx context.Context, bundle *driven.IndexBundle, query string, opts domain.RetrievalOptions,
) (*domain.RetrievalSet, error) {
	logger.Section("Hybrid Retrieval")
	logger.Debug("Query: %q", query)

	// Both paths see the same normalized query text, the form the
	// sparse structure indexed with.
	query = sparse.Normalize(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return &domain.RetrievalSet{}, nil
	}

	kDense := opts.KDense
	if kDense <= 0 {
		kDense = s.cfg.KDense
	}
	kSparse := opts.KSparse
	if kSparse <= 0 {
		kSparse = s.cfg.KSparse
	}
	kFinal := opts.KFinal
	if kFinal <= 0 {
		kFinal = s.cfg.KFinal
	}

	// Run the two paths in parallel.
	var denseHits []candidate
	var sparseHits []candidate
	var denseErr, sparseErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		denseHits, denseErr = s.denseSearch(ctx, bundle, query, kDense)
	}()

	go func() {
		defer wg.Done()
		sparseHits, sparseErr = s.sparseSearch(ctx, bundle, query, kSparse)
	}()

	wg.Wait()

	if denseErr != nil {
		return nil, fmt.Errorf("%w: dense path: %w", domain.ErrRetrievalFailed, denseErr)
	}
	if sparseErr != nil {
		return nil, fmt.Errorf("%w: sparse path: %w", domain.ErrRetrievalFailed, sparseErr)
	}

	logger.Debug("Dense: %d hit(s), sparse: %d hit(s)", len(denseHits), len(sparseHits))

	set := s.fuse(bundle, denseHits, sparseHits, kFinal)
	logger.Info("Fused to %d result(s)", len(set.Results))

	return set, nil
}

// denseSearch embeds the query and searches the vector structure.
func (s *RetrieveService) denseSearch(
	ctx context.Context, bundle *driven.IndexBundle, query string, k int,
) ([]candidate, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}

	hits, err := bundle.Dense.Search(ctx, embedding, k)
	if err != nil {
		return nil, err
	}

	out := make([]candidate, len(hits))
	for i, h := range hits {
		out[i] = candidate{seq: h.Seq, rank: i + 1, score: h.Similarity}
	}
	return out, nil
}

// sparseSearch scores the query against the BM25 structure. The
// structure applies the same normalization it indexed with.
func (s *RetrieveService) sparseSearch(
	ctx context.Context, bundle *driven.IndexBundle, query string, k int,
) ([]candidate, error) {
	hits, err := bundle.Sparse.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	out := make([]candidate, len(hits))
	for i, h := range hits {
		out[i] = candidate{seq: h.Seq, rank: i + 1, score: h.Score}
	}
	return out, nil
}

// fused is the per-chunk accumulator during fusion.
type fused struct {
	seq         int
	score       float64
	denseRank   int
	sparseRank  int
	denseScore  float64
	sparseScore float64
}

// fuse merges the two rankings with weighted reciprocal rank fusion:
// each path contributes weight/(k + rank). Only rank positions feed
// the fused score; the raw scores ride along for the grounding gate.
func (s *RetrieveService) fuse(
	bundle *driven.IndexBundle, denseHits, sparseHits []candidate, kFinal int,
) *domain.RetrievalSet {
	k := float64(s.cfg.RRFK)
	merged := make(map[int]*fused)

	for _, c := range denseHits {
		merged[c.seq] = &fused{
			seq:        c.seq,
			score:      s.cfg.DenseWeight / (k + float64(c.rank)),
			denseRank:  c.rank,
			denseScore: c.score,
		}
	}

	for _, c := range sparseHits {
		f, ok := merged[c.seq]
		if !ok {
			f = &fused{seq: c.seq}
			merged[c.seq] = f
		}
		f.score += s.cfg.SparseWeight / (k + float64(c.rank))
		f.sparseRank = c.rank
		f.sparseScore = c.score
	}

	ranked := make([]*fused, 0, len(merged))
	for _, f := range merged {
		ranked = append(ranked, f)
	}

	// Order by fused score; break ties by the lower combined rank,
	// then by chunk ID so equal inputs always produce equal output.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		si, sj := rankSum(ranked[i], len(denseHits), len(sparseHits)), rankSum(ranked[j], len(denseHits), len(sparseHits))
		if si != sj {
			return si < sj
		}
		return chunkIDAt(bundle, ranked[i].seq) < chunkIDAt(bundle, ranked[j].seq)
	})

	if len(ranked) > kFinal {
		ranked = ranked[:kFinal]
	}

	set := &domain.RetrievalSet{
		Results: make([]domain.FusedResult, len(ranked)),
	}

	for i, f := range ranked {
		set.Results[i] = domain.FusedResult{
			ChunkID:    chunkIDAt(bundle, f.seq),
			FusedScore: f.score,
			FusedRank:  i + 1,
			DenseRank:  f.denseRank,
			SparseRank: f.sparseRank,
		}

		if f.denseRank > 0 && f.denseScore > set.BestCosine {
			set.BestCosine = f.denseScore
		}
		if f.sparseRank > 0 {
			if sat := saturateBM25(f.sparseScore); sat > set.BestBM25 {
				set.BestBM25 = sat
			}
		}
	}

	return set
}

// bm25HalfScore is the raw BM25 score that saturates to 0.5.
const bm25HalfScore = 1.0

// saturateBM25 maps an unbounded BM25 score onto (0, 1). The mapping
// is query independent, so a corpus where the best lexical match is
// weak still reads as weak; normalizing against the query's own top
// hit would pin the best match to 1.0 and the gate could never refuse.
func saturateBM25(score float64) float64 {
	if score <= 0 {
		return 0
	}
	return score / (score + bm25HalfScore)
}

// rankSum combines a candidate's per-path ranks for tie breaking.
// A path that missed the chunk counts as one past its list end.
func rankSum(f *fused, denseLen, sparseLen int) int {
	sum := 0
	if f.denseRank > 0 {
		sum += f.denseRank
	} else {
		sum += denseLen + 1
	}
	if f.sparseRank > 0 {
		sum += f.sparseRank
	} else {
		sum += sparseLen + 1
	}
	return sum
}

func chunkIDAt(bundle *driven.IndexBundle, seq int) string {
	if c, ok := bundle.ChunkBySeq(seq); ok {
		return c.ID
	}
	return ""
}
