package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Build and publish an index bundle from text files",
	Long: `Reads the given text files (or every .txt file under a directory),
chunks and embeds them, and publishes the result as a new index
bundle. The previous bundle keeps serving until the new one is
published; a failed build changes nothing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no text files found under %s", strings.Join(args, ", "))
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close()

	svc := services.NewIngestService(settings.Engine, embedder, bundleStore)

	report, err := svc.Build(cmd.Context(), inputs)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	cmd.Printf("Published bundle %s\n", report.BundleID)
	cmd.Printf("  %d document(s), %d chunk(s)\n", report.DocumentCount, report.ChunkCount)
	for _, label := range report.Skipped {
		cmd.Printf("  skipped %s: no extractable text\n", label)
	}
	return nil
}

// collectInputs reads every named file, expanding directories to the
// .txt files directly inside them.
func collectInputs(paths []string) ([]domain.DocumentInput, error) {
	var inputs []domain.DocumentInput

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		if !info.IsDir() {
			input, err := readInput(path)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, input)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
				continue
			}
			input, err := readInput(filepath.Join(path, entry.Name()))
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, input)
		}
	}

	return inputs, nil
}

func readInput(path string) (domain.DocumentInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DocumentInput{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return domain.DocumentInput{
		Label:      filepath.Base(path),
		SourcePath: path,
		Text:       string(data),
	}, nil
}
