package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis tools over MCP on stdin/stdout",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	rt, err := setup(commandContext(cmd))
	if err != nil {
		return err
	}
	defer rt.close()

	return mcptools.Serve(rt.providers, version, rt.logger)
}
