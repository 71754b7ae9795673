package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

func runAnalysisCommand(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		query = app.Config.DefaultSearchQuery
	}
	fmt.Fprintf(os.Stderr, "Analysing: %s\n", query)

	analysis, err := app.Analysis.Analyze(cmd.Context(), query)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(analysis)
	}

	if analysis.Status == domain.AnalysisNoData {
		fmt.Println(analysis.Report)
		return nil
	}
	fmt.Printf("Query: %s (strategy: %s)\n\n", analysis.Resolution.Query, analysis.Resolution.Strategy)
	fmt.Println(analysis.Report)
	if len(analysis.ResultFiles) > 0 {
		fmt.Println("\nResults saved to:")
		for _, path := range analysis.ResultFiles {
			fmt.Println("  " + path)
		}
	}
	return nil
}

func runResolveCommand(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	outcome, err := app.Resolver.Resolve(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printJSON(struct {
		*domain.ResolutionOutcome
		Rows []domain.Post `json:"rows"`
	}{outcome, outcome.Rows})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
