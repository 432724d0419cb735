package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/services"
)

var groundJSON bool

var groundCmd = &cobra.Command{
	Use:   "ground [question]",
	Short: "Retrieve gated, citation-tagged context for a question",
	Long: `Retrieves for the question, applies the relevance gate and prints a
citation-tagged context block. When nothing relevant clears the gate,
no context is printed and the command reports that instead; a
downstream generator must not answer from its own knowledge in that
case.`,
	Args: cobra.ExactArgs(1),
	RunE: runGround,
}

func init() {
	groundCmd.Flags().BoolVar(&groundJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(groundCmd)
}

func runGround(cmd *cobra.Command, args []string) error {
	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close()

	lifecycle, err := newLifecycle(cmd.Context(), embedder)
	if err != nil {
		return err
	}

	retriever := services.NewRetrieveService(settings.Engine, lifecycle, embedder)
	svc := services.NewGroundService(settings.Engine, retriever, lifecycle)

	grounding, err := svc.Ground(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("grounding failed: %w", err)
	}

	if groundJSON {
		data, err := json.MarshalIndent(grounding, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal grounding: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if !grounding.ContextFound {
		cmd.Println("No relevant context found.")
		return nil
	}

	cmd.Println(grounding.ContextBlock)
	cmd.Println()
	cmd.Println("Citations:")

	// Tags are numbered 1..n with no gaps.
	for i := 1; i <= len(grounding.Citations); i++ {
		tag := domain.CitationTag(i)
		cmd.Printf("  %s %s\n", tag, grounding.Citations[tag])
	}

	return nil
}
