package driving

import (
	"context"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// LifecycleService owns the long-lived, shared-read bundle.
type LifecycleService interface {
	// Reload loads the published bundle and atomically swaps it in.
	// In-flight queries finish against the bundle they started with.
	Reload(ctx context.Context) error

	// Manifest returns the current bundle's manifest, or
	// domain.ErrBundleNotFound before the first successful load.
	Manifest() (domain.BundleManifest, error)

	// Watch reloads whenever the bundle store publishes a new bundle,
	// until the context is cancelled.
	Watch(ctx context.Context) error
}
