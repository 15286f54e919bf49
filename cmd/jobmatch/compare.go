package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/observability"
)

var (
	compareResume     string
	compareResumeFile string
	compareJob        string
	compareJobFile    string
	compareJSONOutput bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Score a resume against a job description",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareResume, "resume", "", "Resume text")
	compareCmd.Flags().StringVar(&compareResumeFile, "resume-file", "", "Resume file")
	compareCmd.Flags().StringVar(&compareJob, "job", "", "Job description text")
	compareCmd.Flags().StringVar(&compareJobFile, "job-file", "", "Job description file")
	compareCmd.Flags().BoolVar(&compareJSONOutput, "json-output", false, "Print the full result as JSON")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	resume, err := inputText(compareResume, compareResumeFile, "resume")
	if err != nil {
		return err
	}
	job, err := inputText(compareJob, compareJobFile, "job description")
	if err != nil {
		return err
	}

	rt, err := setup(commandContext(cmd))
	if err != nil {
		return err
	}
	defer rt.close()

	result := rt.providers.Analysis.Compare(commandContext(cmd), resume, job)
	if result.Error != "" {
		return fmt.Errorf("comparison failed: %s", result.Error)
	}

	if compareJSONOutput {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintComparison(&result)
	return nil
}
