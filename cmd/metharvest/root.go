package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"metharvest/pkg/ui"
)

var (
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "metharvest",
	Short: "Harvest museum-collection metadata and images into a period-classified dataset",
	Long: `metharvest builds a curated cultural-heritage dataset from the Met Museum
public collection API.

It searches the collection for a fixed set of queries, classifies each object
by historical period, samples evenly across periods up to a global cap,
downloads the primary images into a structured folder tree, and writes the
collected metadata as JSON and CSV.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .metharvest.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`metharvest {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
