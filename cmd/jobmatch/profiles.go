package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/embedding"
	"github.com/jonathan/jobmatch/internal/observability"
	"github.com/jonathan/jobmatch/internal/types"
)

var (
	profileKind     string
	profileID       string
	profileTitle    string
	profileText     string
	profileFile     string
	matchJSONOutput bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Analyze a resume or job description and save it to the store",
	RunE:  runIngest,
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a stored profile against every stored profile of the other kind",
	Long:  "Score a stored candidate (or job) against all stored jobs (or candidates) and persist the pairs above store.match_threshold.",
	RunE:  runMatch,
}

func init() {
	for _, c := range []*cobra.Command{ingestCmd, matchCmd} {
		c.Flags().StringVar(&profileKind, "kind", "", "Profile kind: candidate or job")
		c.Flags().StringVar(&profileID, "id", "", "Profile id")
		_ = c.MarkFlagRequired("kind")
		_ = c.MarkFlagRequired("id")
	}
	ingestCmd.Flags().StringVar(&profileTitle, "title", "", "Profile title")
	ingestCmd.Flags().StringVarP(&profileText, "text", "t", "", "Profile text")
	ingestCmd.Flags().StringVarP(&profileFile, "file", "f", "", "Profile file")
	matchCmd.Flags().BoolVar(&matchJSONOutput, "json-output", false, "Print the summary as JSON")

	rootCmd.AddCommand(ingestCmd, matchCmd)
}

func parseKind(s string) (types.ProfileKind, error) {
	kind := types.ProfileKind(s)
	if !kind.Valid() {
		return "", fmt.Errorf("--kind must be %q or %q, got %q", types.KindCandidate, types.KindJob, s)
	}
	return kind, nil
}

func runIngest(cmd *cobra.Command, _ []string) error {
	kind, err := parseKind(profileKind)
	if err != nil {
		return err
	}
	text, err := inputText(profileText, profileFile, "profile text")
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	result := rt.providers.Analysis.Analyze(ctx, text)
	if result.Error != "" {
		return fmt.Errorf("analysis failed: %s", result.Error)
	}

	profile := &types.Profile{
		Kind:            kind,
		ID:              profileID,
		Title:           profileTitle,
		Text:            text,
		Skills:          result.Skills,
		ExperienceYears: result.ExperienceYears,
	}
	if !embedding.IsZero(result.Embedding) {
		profile.Embedding = result.Embedding
	}
	if err := rt.providers.Store.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	rt.logger.Info("profile saved",
		zap.String("kind", string(kind)),
		zap.String("id", profileID),
		zap.String("store", rt.providers.StoreDriver()))
	return writeJSON(cmd.OutOrStdout(), profile)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	kind, err := parseKind(profileKind)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	summary, err := rt.providers.Matcher.Run(ctx, kind, profileID, nil)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	if matchJSONOutput {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintMatchSummary(summary)
	return nil
}
