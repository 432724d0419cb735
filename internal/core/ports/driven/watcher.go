package driven

import "context"

// BundleWatcher observes the bundle store for republishes.
type BundleWatcher interface {
	// Watch blocks until the context is cancelled, invoking onChange
	// every time a new bundle is published. Notifications may be
	// coalesced; onChange must tolerate being called when nothing
	// actually changed.
	Watch(ctx context.Context, onChange func()) error
}
