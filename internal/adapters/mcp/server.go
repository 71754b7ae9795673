package mcpadapter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/x-sentiment/internal/core/ports"
)

const (
	serverName    = "x-sentiment"
	serverVersion = "1.0.0"
)

// NewServer exposes query resolution and sentiment analysis as MCP tools.
func NewServer(resolver ports.QueryResolver, analyzer ports.SentimentAnalyzer) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithInstructions("Resolve natural-language or operator search input into an X search query and analyse the sentiment of matching posts."),
	)

	s.AddTool(
		mcp.NewTool("resolve_query",
			mcp.WithDescription("Turn free text or an advanced search expression into a query that returns posts, falling back to relaxed variants when the first query is empty"),
			mcp.WithString("input", mcp.Required(), mcp.Description("Search input, at most 500 characters")),
		),
		handleResolve(resolver),
	)
	s.AddTool(
		mcp.NewTool("analyze_sentiment",
			mcp.WithDescription("Fetch posts for the input, score their sentiment and return the summary with the top negative posts"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search input, at most 500 characters")),
		),
		handleAnalyze(analyzer),
	)
	return s
}

// ServeStdio serves the tools over stdin/stdout until ctx is cancelled.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}

type resolveToolResult struct {
	Success       bool   `json:"success"`
	Query         string `json:"query"`
	Strategy      string `json:"strategy"`
	Kind          string `json:"kind"`
	RewriteSource string `json:"rewrite_source"`
	Posts         int    `json:"posts"`
	Attempts      int    `json:"attempts"`
}

func handleResolve(resolver ports.QueryResolver) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := request.RequireString("input")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		outcome, err := resolver.Resolve(ctx, input)
		if err != nil {
			slog.Warn("mcp_tool_failed", "tool", "resolve_query", "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(resolveToolResult{
			Success:       outcome.Success,
			Query:         outcome.Query,
			Strategy:      outcome.Strategy,
			Kind:          string(outcome.Kind),
			RewriteSource: string(outcome.RewriteSource),
			Posts:         len(outcome.Rows),
			Attempts:      len(outcome.Attempts),
		})
	}
}

func handleAnalyze(analyzer ports.SentimentAnalyzer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		analysis, err := analyzer.Analyze(ctx, query)
		if err != nil {
			slog.Warn("mcp_tool_failed", "tool", "analyze_sentiment", "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(analysis)
	}
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}
