package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

var (
	sourcesSuggest string
	sourcesRemove  string
	sourcesJSON    bool
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List indexed sources",
	Long: `Lists the source URLs currently in the local knowledge index.

With --suggest, prints the authoritative domains recommended for a
query category (environmental, technology, medical or general) instead.
With --rm, deletes all indexed content for the given source URL.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func init() {
	sourcesCmd.Flags().StringVar(&sourcesSuggest, "suggest", "", "suggest sources for a category instead")
	sourcesCmd.Flags().StringVar(&sourcesRemove, "rm", "", "remove all indexed content for a source URL")
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	if sourcesRemove != "" {
		if err := sourceService.RemoveSource(cmd.Context(), sourcesRemove); err != nil {
			return fmt.Errorf("removing source: %w", err)
		}
		cmd.Printf("Removed source: %s\n", sourcesRemove)
		return nil
	}

	if sourcesSuggest != "" {
		return outputSuggested(cmd, domain.QueryType(sourcesSuggest))
	}

	sources, err := sourceService.IndexedSources(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if sourcesJSON {
		if sources == nil {
			sources = []string{}
		}
		data, err := json.MarshalIndent(sources, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal sources: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(sources) == 0 {
		cmd.Println("No sources indexed yet.")
		return nil
	}

	cmd.Printf("Indexed sources (%d):\n", len(sources))
	for _, source := range sources {
		cmd.Printf("  %s\n", source)
	}
	return nil
}

func outputSuggested(cmd *cobra.Command, queryType domain.QueryType) error {
	suggested := sourceService.SuggestedSources(queryType)

	if sourcesJSON {
		data, err := json.MarshalIndent(suggested, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal sources: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Suggested sources for %s:\n", queryType)
	for _, source := range suggested {
		cmd.Printf("  %s\n", source)
	}
	return nil
}
