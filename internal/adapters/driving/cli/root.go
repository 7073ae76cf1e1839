// Package cli provides the cobra command tree for the deepscout CLI.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driving"
	"github.com/custodia-labs/deepscout-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired by ensureServices, or injected directly in tests.
var (
	researchService driving.ResearchService
	sourceService   driving.SourceService
	analyzerService driving.AnalyzerService
	webSearcher     driven.WebSearcher
	contentFetcher  driven.ContentFetcher
	configStore     driven.ConfigStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "deepscout",
	Short: "Research assistant with a local knowledge index",
	Long: `DeepScout answers research questions from the command line.

It searches the web, fetches and indexes page content into a local
vector index, and retrieves the most relevant passages to build an
answer. Indexed content persists, so repeated questions on a topic get
faster and better grounded over time.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging to stderr")
}

// Execute runs the root command with the given build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
