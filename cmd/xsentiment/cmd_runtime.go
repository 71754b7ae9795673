package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirillkom/x-sentiment/internal/config"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/harvest"
)

func runCheckCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	status, err := harvest.CheckRuntime(cmd.Context(), harvest.ExecRunner{})
	if err != nil {
		return fmt.Errorf("runtime check failed: %w", err)
	}
	fmt.Printf("node: %s\nnpx:  %s\n", status.NodeVersion, status.NpxVersion)

	var problems []error
	if cfg.TwitterAuthToken == "" {
		problems = append(problems, errors.New("TWITTER_AUTH_TOKEN is not set"))
	}
	if cfg.GroqAPIKey == "" {
		fmt.Println("GROQ_API_KEY is not set: query rewriting, complexity checks and translation are disabled")
	}
	if len(problems) > 0 {
		return errors.Join(problems...)
	}
	fmt.Println("ready")
	return nil
}

func runInstallCommand(cmd *cobra.Command, _ []string) error {
	pkg, err := harvest.Install(cmd.Context(), harvest.ExecRunner{})
	if err != nil {
		return err
	}
	fmt.Printf("installed %s\n", pkg)
	return nil
}
