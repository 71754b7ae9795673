package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/core/ports"
)

var errEmptyCompletion = errors.New("completion returned no query")

// QueryRewriter turns natural language into a structured search expression.
// It never fails: any completion problem degrades to local keyword extraction.
type QueryRewriter struct {
	completion ports.CompletionClient
}

// NewQueryRewriter accepts a nil client, in which case only the local fallback is used.
func NewQueryRewriter(completion ports.CompletionClient) *QueryRewriter {
	return &QueryRewriter{completion: completion}
}

func (r *QueryRewriter) Rewrite(ctx context.Context, text string) domain.RewriteResult {
	query, err := r.rewriteWithService(ctx, text)
	if err == nil {
		slog.Info("query_rewritten", "input", text, "query", query, "source", domain.RewriteAI)
		return domain.RewriteResult{Query: query, Source: domain.RewriteAI}
	}

	fallback := r.Fallback(text)
	slog.Warn("query_rewrite_degraded",
		"input", text,
		"query", fallback.Query,
		"error", err,
	)
	return fallback
}

// Fallback derives a query deterministically from text alone.
func (r *QueryRewriter) Fallback(text string) domain.RewriteResult {
	query := normalizeQueryLine(fallbackKeywordQuery(text))
	if query == "" {
		query = normalizeQueryLine(SanitizeQuery(text))
	}
	return domain.RewriteResult{Query: query, Source: domain.RewriteFallbackKeywords}
}

func (r *QueryRewriter) rewriteWithService(ctx context.Context, text string) (string, error) {
	if r.completion == nil {
		return "", domain.WrapError(domain.ErrMisconfigured, "rewrite query", errors.New("completion client is not configured"))
	}
	raw, err := r.completion.Complete(ctx, buildRewritePrompt(text))
	if err != nil {
		return "", err
	}
	query := normalizeModelQuery(raw)
	if query == "" {
		return "", errEmptyCompletion
	}
	return query, nil
}

// normalizeModelQuery keeps the first non-empty line of a model response,
// strips surrounding quotes and clamps it to the query length limit.
func normalizeModelQuery(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = stripWrappingQuotes(strings.TrimSpace(line))
		if strings.Count(line, `"`)%2 != 0 {
			line = strings.ReplaceAll(line, `"`, "")
		}
		if line = strings.TrimSpace(line); line != "" {
			return normalizeQueryLine(line)
		}
	}
	return ""
}

func stripWrappingQuotes(line string) string {
	for len(line) >= 2 {
		first, last := line[0], line[len(line)-1]
		if first != last || !strings.ContainsRune("\"'`", rune(first)) {
			break
		}
		if strings.IndexByte(line[1:len(line)-1], first) >= 0 {
			break
		}
		line = strings.TrimSpace(line[1 : len(line)-1])
	}
	return line
}

// normalizeQueryLine collapses whitespace and enforces the length limit.
func normalizeQueryLine(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if utf8.RuneCountInString(query) <= domain.MaxQueryLength {
		return query
	}
	runes := []rune(query)[:domain.MaxQueryLength]
	cut := string(runes)
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
