package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/services"
)

var (
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Run hybrid retrieval and print the fused ranking",
	Long: `Runs the dense and sparse retrieval paths against the published
bundle and prints the reciprocal-rank-fused candidate list. This is
the raw ranking; use 'lexra ground' for the gated, citation-tagged
context block.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close()

	lifecycle, err := newLifecycle(cmd.Context(), embedder)
	if err != nil {
		return err
	}

	svc := services.NewRetrieveService(settings.Engine, lifecycle, embedder)

	set, err := svc.Retrieve(cmd.Context(), args[0], domain.RetrievalOptions{KFinal: queryLimit})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(set.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	bundle, err := lifecycle.Current()
	if err != nil {
		return err
	}

	cmd.Println("Results:")
	cmd.Println()
	for _, r := range set.Results {
		cmd.Printf("  [%d] %s (fused %.4f, dense #%d, sparse #%d)\n",
			r.FusedRank, r.ChunkID, r.FusedScore, r.DenseRank, r.SparseRank)

		if chunk, ok := bundle.ChunkByID(r.ChunkID); ok {
			cmd.Printf("      %s\n", snippet(chunk.Content, 120))
		}
		cmd.Println()
	}

	return nil
}

// snippet returns the first n runes of s on a single line.
func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		s = string(runes[:n]) + "..."
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
