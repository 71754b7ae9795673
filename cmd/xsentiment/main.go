package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kirillkom/x-sentiment/internal/bootstrap"
	"github.com/kirillkom/x-sentiment/internal/config"
	"github.com/kirillkom/x-sentiment/internal/observability/logging"
)

const serviceName = "cli"

var (
	logFormat  string
	fetchLimit int
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "xsentiment",
		Short:         "Resolve X search queries and analyse the sentiment of matching posts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (default LOG_FORMAT, then text)")

	analysisCmd := &cobra.Command{
		Use:   "analysis [query]",
		Short: "Run the full pipeline; uses DEFAULT_SEARCH_QUERY when no query is given",
		RunE:  runAnalysisCommand,
	}
	analysisCmd.Flags().IntVar(&fetchLimit, "limit", 0, "rows per fetch attempt (default DEFAULT_LIMIT)")
	analysisCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the analysis as JSON")

	resolveCmd := &cobra.Command{
		Use:   "resolve <input>",
		Short: "Resolve input into a search query and fetch rows without scoring",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runResolveCommand,
	}
	resolveCmd.Flags().IntVar(&fetchLimit, "limit", 0, "rows per fetch attempt (default DEFAULT_LIMIT)")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check that node, npx and credentials are available",
		Args:  cobra.NoArgs,
		RunE:  runCheckCommand,
	}
	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install the tweet-harvest package globally with npm",
		Args:  cobra.NoArgs,
		RunE:  runInstallCommand,
	}
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve resolve_query and analyze_sentiment as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE:  runMCPCommand,
	}

	rootCmd.AddCommand(analysisCmd, resolveCmd, checkCmd, installCmd, mcpCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// loadApp reads config, installs the stderr logger and wires the pipeline.
// Stdout stays free for command output and the MCP protocol.
func loadApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logging.New(os.Stderr, serviceName, cfg.LogLevel, logging.PickFormat("text", logFormat, cfg.LogFormat)))

	if fetchLimit > 0 {
		cfg.DefaultLimit = fetchLimit
	}
	return bootstrap.New(ctx, cfg, bootstrap.Options{Service: serviceName, SkipQueue: true})
}
