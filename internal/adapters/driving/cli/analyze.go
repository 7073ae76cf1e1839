package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

var (
	analyzeStats bool
	analyzeJSON  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [query]",
	Short: "Classify a query without running research",
	Long: `Shows how a query would be interpreted: its category, time
preference, confidence, matched keywords and suggested sources.

With --stats, prints aggregate statistics over the queries analyzed in
this session instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeStats, "stats", false, "show aggregate query statistics")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if analyzerService == nil {
		return errors.New("analyzer service not configured")
	}

	if analyzeStats {
		return outputStats(cmd)
	}

	if len(args) == 0 {
		return errors.New("provide a query, or --stats for aggregate statistics")
	}

	analysis := analyzerService.Analyze(args[0])

	if analyzeJSON {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal analysis: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Query:       %s\n", analysis.Query)
	cmd.Printf("Category:    %s\n", analysis.Type)
	cmd.Printf("Time:        %s\n", analysis.TimePreference)
	cmd.Printf("Confidence:  %.2f\n", analysis.Confidence)

	if len(analysis.Keywords) > 0 {
		terms := make([]string, len(analysis.Keywords))
		for i, kw := range analysis.Keywords {
			terms[i] = kw.Term
			if kw.Primary {
				terms[i] += "*"
			}
		}
		cmd.Printf("Keywords:    %s\n", strings.Join(terms, ", "))
	}
	if len(analysis.SuggestedSources) > 0 {
		cmd.Printf("Sources:     %s\n", strings.Join(analysis.SuggestedSources, ", "))
	}

	return nil
}

func outputStats(cmd *cobra.Command) error {
	stats := analyzerService.Stats()

	if analyzeJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Total queries:    %d\n", stats.Total)
	cmd.Printf("Mean confidence:  %.2f\n", stats.MeanConfidence)
	cmd.Printf("Most common:      %s\n", stats.MostCommon)

	if len(stats.ByType) > 0 {
		types := make([]string, 0, len(stats.ByType))
		for qt := range stats.ByType {
			types = append(types, string(qt))
		}
		sort.Strings(types)
		cmd.Println("By category:")
		for _, qt := range types {
			cmd.Printf("  %-15s %d\n", qt, stats.ByType[domain.QueryType(qt)])
		}
	}

	return nil
}
