package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "stockdesk",
	Short: "Stockdesk - stock-media and AI image order desk",
	Long: `Stockdesk prices, submits, and tracks orders against the fulfillment API.

It covers both order flavors the API serves:
  - Stock-media purchases from provider catalogs
  - AI image-generation jobs with follow-up actions

Order costs are computed locally from a volume-discount tier table before
submission, and in-flight orders are polled until they finish.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
