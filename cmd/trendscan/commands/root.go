package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trendscan",
	Short: "trendscan - trending stocks scanner",
	Long: `trendscan Unified CLI

Batch scanner that ranks US tickers by aggregating momentum, social
buzz, news flow, options activity, and a dozen other unreliable feeds
into one weighted score.

Usage:
  go run ./cmd/trendscan [command]

Examples:
  go run ./cmd/trendscan scan
  go run ./cmd/trendscan scan --source momentum --top 5
  go run ./cmd/trendscan serve
  go run ./cmd/trendscan schedule`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "config", "config/trendscan.yaml", "strategy YAML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
