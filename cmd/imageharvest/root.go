package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imageharvest",
	Short: "Harvest and download full-resolution images from search results",
	Long: `imageharvest discovers full-resolution image URLs from a search result
surface with a stealth-patched headless browser and downloads them into
content-addressed storage.

Features:
  - Click-to-reveal harvesting with paginated discovery
  - Jittered pacing between interactions
  - Content-addressed storage with SHA-1 derived filenames
  - Automatic retry with exponential backoff
  - Secure vision API credential storage`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.imageharvest.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}
