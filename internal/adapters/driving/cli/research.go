package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

var (
	researchMaxSources int
	researchTopK       int
	researchJSON       bool
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Answer a research question",
	Long: `Runs the full research pipeline for a question: classifies it,
searches the web, indexes the fetched pages, retrieves the most relevant
passages and assembles an answer with source citations.

Without a configured web search endpoint, answers come from content
already in the local index.`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().IntVar(&researchMaxSources, "max-sources", 0, "maximum web sources to gather (default 5)")
	researchCmd.Flags().IntVarP(&researchTopK, "top-k", "k", 0, "maximum passages to retrieve (default 5)")
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if researchService == nil {
		return errors.New("research service not configured")
	}

	opts := domain.ResearchOptions{
		MaxSources: researchMaxSources,
		TopK:       researchTopK,
	}

	answer, err := researchService.Research(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	if researchJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputAnswer(cmd, answer)
}

func outputAnswer(cmd *cobra.Command, answer *domain.ResearchAnswer) error {
	cmd.Printf("Query: %s\n", answer.Query)
	cmd.Printf("Category: %s (confidence %.2f)\n", answer.Analysis.Type, answer.Analysis.Confidence)
	cmd.Println()

	if answer.Answer != "" {
		cmd.Println(answer.Answer)
		cmd.Println()
	}

	if len(answer.Results) == 0 {
		cmd.Println("No relevant passages found. Try indexing some sources first.")
		return nil
	}

	cmd.Println("Top passages:")
	for i, r := range answer.Results {
		cmd.Printf("  [%d] (%.2f) %s\n", i+1, r.Score, truncate(r.Chunk.Content, 120))
		if r.Chunk.SourceURL != "" {
			cmd.Printf("      %s\n", r.Chunk.SourceURL)
		}
	}

	return nil
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
