package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/server"
)

var (
	tokenSubject string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token signed with auth.jwt_secret",
	Long:  "Mint a bearer token for local development and testing. Requires auth.jwt_secret (or JWT_SECRET).",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Token subject (user id)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "candidate", "Role: candidate or recruiter")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	jwtConfig, err := config.NewJWTConfig(cfg.Auth)
	if err != nil {
		return fmt.Errorf("cannot mint tokens: %w", err)
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(tokenSubject, tokenRole)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
