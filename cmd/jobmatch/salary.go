package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/observability"
	"github.com/jonathan/jobmatch/internal/salary"
	"github.com/jonathan/jobmatch/internal/types"
)

var (
	salaryRole       string
	salaryExperience float64
	salarySkills     string
	salaryLocation   string
	salaryJSONOutput bool
)

var salaryCmd = &cobra.Command{
	Use:   "salary",
	Short: "Estimate a salary band",
	RunE:  runSalary,
}

func init() {
	salaryCmd.Flags().StringVar(&salaryRole, "role", "", "Job title")
	salaryCmd.Flags().Float64Var(&salaryExperience, "experience", 0, "Years of experience")
	salaryCmd.Flags().StringVar(&salarySkills, "skills", "", "Comma-separated skills")
	salaryCmd.Flags().StringVar(&salaryLocation, "location", "", "City or region")
	salaryCmd.Flags().BoolVar(&salaryJSONOutput, "json-output", false, "Print the estimate as JSON")
	rootCmd.AddCommand(salaryCmd)
}

// splitList splits a comma-separated flag, dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runSalary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := types.SalaryRequest{
		Role:       salaryRole,
		Experience: salaryExperience,
		Skills:     splitList(salarySkills),
		Location:   salaryLocation,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid salary request: %w", err)
	}

	est := salary.NewEstimator(cfg.Salary.Base, cfg.Salary.Currency).Predict(req)
	if salaryJSONOutput {
		return writeJSON(cmd.OutOrStdout(), est)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSalary(&req, &est)
	return nil
}
