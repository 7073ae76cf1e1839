package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

var (
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the local knowledge index",
	Long: `Performs semantic search over already-indexed content without
touching the web. Results are ranked by vector similarity to the query.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if researchService == nil {
		return errors.New("research service not configured")
	}

	results := researchService.Retrieve(cmd.Context(), args[0], searchTopK)

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.RetrievalResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] (%.2f) %s\n", i+1, r.Score, truncate(r.Chunk.Content, 120))
		if r.Chunk.SourceURL != "" {
			cmd.Printf("      Source: %s\n", r.Chunk.SourceURL)
		}
		cmd.Println()
	}

	return nil
}
