// Package main provides the entry point for the jobmatch CLI, HTTP API server and MCP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	debugLog   bool
	jsonLog    bool
)

var rootCmd = &cobra.Command{
	Use:           "jobmatch",
	Short:         "Resume analysis and job matching service",
	Long:          "jobmatch extracts skills and experience from resumes and job descriptions, scores candidates against jobs and estimates salaries, over REST, MCP or the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (default: ./jobmatch.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json", false, "Log as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
