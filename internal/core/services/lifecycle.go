package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driving"
	"github.com/lexra-labs/lexra-cli/internal/logger"
)

// Ensure LifecycleService implements the interfaces.
var (
	_ driving.LifecycleService = (*LifecycleService)(nil)
	_ BundleProvider           = (*LifecycleService)(nil)
)

// LifecycleService owns the long-lived, shared-read bundle. Reload
// swaps a freshly validated bundle in with a single pointer store, so
// in-flight queries finish against the bundle they started with and
// new queries see the replacement.
type LifecycleService struct {
	store    driven.BundleStore
	watcher  driven.BundleWatcher
	embedder driven.EmbeddingService
	current  atomic.Pointer[driven.IndexBundle]
}

// NewLifecycleService creates a new lifecycle service. The watcher and
// embedder are optional: without a watcher, Watch is unavailable;
// without an embedder, embedding compatibility is not enforced.
func NewLifecycleService(
	store driven.BundleStore,
	watcher driven.BundleWatcher,
	embedder driven.EmbeddingService,
) *LifecycleService {
	return &LifecycleService{
		store:    store,
		watcher:  watcher,
		embedder: embedder,
	}
}

// Reload loads the published bundle and atomically swaps it in.
// On any load failure the previous bundle keeps serving.
func (s *LifecycleService) Reload(ctx context.Context) error {
	bundle, err := s.store.LoadCurrent(ctx)
	if err != nil {
		return err
	}

	if err := s.checkCompatible(bundle.Manifest); err != nil {
		return err
	}

	old := s.current.Swap(bundle)
	if old != nil && old.Manifest.BundleID == bundle.Manifest.BundleID {
		logger.Debug("Reload: bundle %s unchanged", bundle.Manifest.BundleID)
	} else {
		logger.Info("Serving bundle %s (%d chunks)",
			bundle.Manifest.BundleID, bundle.Manifest.ChunkCount)
	}
	return nil
}

// checkCompatible refuses a bundle whose pinned embedding function
// does not match the configured one: querying with a different model
// would make the dense metric meaningless.
func (s *LifecycleService) checkCompatible(m domain.BundleManifest) error {
	if s.embedder == nil {
		return nil
	}
	if m.EmbeddingModel != s.embedder.ModelName() || m.EmbeddingDimension != s.embedder.Dimensions() {
		return fmt.Errorf("bundle %s built with %s/%d, configured %s/%d: %w",
			m.BundleID, m.EmbeddingModel, m.EmbeddingDimension,
			s.embedder.ModelName(), s.embedder.Dimensions(),
			domain.ErrBundleIncompatible)
	}
	return nil
}

// Current returns the loaded bundle, or domain.ErrBundleNotFound
// before the first successful Reload.
func (s *LifecycleService) Current() (*driven.IndexBundle, error) {
	bundle := s.current.Load()
	if bundle == nil {
		return nil, domain.ErrBundleNotFound
	}
	return bundle, nil
}

// Manifest returns the current bundle's manifest.
func (s *LifecycleService) Manifest() (domain.BundleManifest, error) {
	bundle, err := s.Current()
	if err != nil {
		return domain.BundleManifest{}, err
	}
	return bundle.Manifest, nil
}

// Watch reloads whenever the bundle store publishes a new bundle,
// until the context is cancelled. A failed reload keeps the previous
// bundle serving and keeps watching.
func (s *LifecycleService) Watch(ctx context.Context) error {
	if s.watcher == nil {
		return fmt.Errorf("lifecycle: no bundle watcher configured")
	}

	return s.watcher.Watch(ctx, func() {
		if err := s.Reload(ctx); err != nil {
			logger.Warn("Reload after publish failed: %v", err)
		}
	})
}
