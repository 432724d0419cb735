// Package cli implements the lexra command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexra-labs/lexra-cli/internal/adapters/driven/bundle/fsstore"
	"github.com/lexra-labs/lexra-cli/internal/adapters/driven/config/file"
	"github.com/lexra-labs/lexra-cli/internal/adapters/driven/embedding"
	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
	"github.com/lexra-labs/lexra-cli/internal/core/services"
	"github.com/lexra-labs/lexra-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
)

// Shared application state, initialized by the root PersistentPreRunE.
var (
	configStore *file.ConfigStore
	settings    domain.Settings
	bundleStore *fsstore.Store
)

var rootCmd = &cobra.Command{
	Use:   "lexra",
	Short: "Hybrid retrieval and grounding engine for regulatory text",
	Long: `Lexra indexes regulatory and administrative documents and answers
retrieval requests with citation-tagged context blocks. Retrieval is
hybrid: a dense semantic index and a sparse BM25 index are queried in
parallel and fused by reciprocal rank.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initStores()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.lexra)")
}

// initStores loads settings and opens the bundle store.
func initStores() error {
	var err error
	configStore, err = file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settings, err = configStore.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	bundleStore, err = fsstore.New(settings.DataDir, settings.Engine.BM25K1, settings.Engine.BM25B)
	if err != nil {
		return fmt.Errorf("opening bundle store: %w", err)
	}

	return nil
}

// newEmbedder creates the configured embedding service.
func newEmbedder() (driven.EmbeddingService, error) {
	return embedding.CreateService(&settings.Embedding)
}

// newLifecycle creates a lifecycle service and loads the published
// bundle. The embedder may be nil when no compatibility check is
// wanted (read-only inspection).
func newLifecycle(ctx context.Context, embedder driven.EmbeddingService) (*services.LifecycleService, error) {
	lifecycle := services.NewLifecycleService(bundleStore, fsstore.NewWatcher(bundleStore), embedder)
	if err := lifecycle.Reload(ctx); err != nil {
		if errors.Is(err, domain.ErrBundleNotFound) {
			return nil, fmt.Errorf("%w (run 'lexra ingest' first)", domain.ErrBundleNotFound)
		}
		return nil, err
	}
	return lifecycle, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
