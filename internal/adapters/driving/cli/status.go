package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the published bundle and active configuration",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Config:   %s\n", configStore.Path())
	cmd.Printf("Bundles:  %s\n", bundleStore.Dir())
	cmd.Printf("Provider: %s", settings.Embedding.Provider)
	if settings.Embedding.Model != "" {
		cmd.Printf(" (%s)", settings.Embedding.Model)
	}
	cmd.Println()
	cmd.Printf("Gate:     %s >= %.2f\n", settings.Engine.RelevanceMetric, settings.Engine.RelevanceThreshold)
	cmd.Println()

	lifecycle, err := newLifecycle(cmd.Context(), nil)
	if err != nil {
		if errors.Is(err, domain.ErrBundleNotFound) {
			cmd.Println("No bundle published.")
			return nil
		}
		return err
	}

	manifest, err := lifecycle.Manifest()
	if err != nil {
		return err
	}

	cmd.Printf("Bundle:   %s (published %s)\n", manifest.BundleID, manifest.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Corpus:   %d document(s), %d chunk(s)\n", manifest.DocumentCount, manifest.ChunkCount)
	cmd.Printf("Model:    %s (%d dimensions)\n", manifest.EmbeddingModel, manifest.EmbeddingDimension)
	return nil
}
