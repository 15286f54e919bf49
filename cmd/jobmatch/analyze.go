package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/observability"
)

var (
	analyzeText       string
	analyzeFile       string
	analyzeJSONOutput bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract skills, experience and an embedding from a resume or job description",
	Long:  "Analyze inline text or a .pdf, .docx, .html, .txt or .md file. Inline text wins when both are given.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "Text to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "File to analyze")
	analyzeCmd.Flags().BoolVar(&analyzeJSONOutput, "json-output", false, "Print the full result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

// inputText returns text, or the decoded file when text is blank.
func inputText(text, file, what string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if file == "" {
		return "", fmt.Errorf("%s is required", what)
	}
	return ingestion.ReadFile(file)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	text, err := inputText(analyzeText, analyzeFile, "input text")
	if err != nil {
		return err
	}

	rt, err := setup(commandContext(cmd))
	if err != nil {
		return err
	}
	defer rt.close()

	result := rt.providers.Analysis.Analyze(commandContext(cmd), text)
	if result.Error != "" {
		return fmt.Errorf("analysis failed: %s", result.Error)
	}

	if analyzeJSONOutput {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis(&result)
	return nil
}
