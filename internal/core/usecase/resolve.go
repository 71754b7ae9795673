package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/core/ports"
)

const (
	defaultFetchLimit          = 100
	defaultMaxFallbackAttempts = 2
)

type ResolverOptions struct {
	FetchLimit          int
	MaxFallbackAttempts int
}

// Resolver turns raw user input into fetched rows: classify, rewrite when needed,
// assess complexity, fetch, and walk the bounded fallback list on empty results.
// It holds no per-call state, so one Resolver may serve concurrent callers.
type Resolver struct {
	rewriter *QueryRewriter
	advisor  *ComplexityAdvisor
	fetcher  ports.PostFetcher
	observer ports.ResolveObserver
	opts     ResolverOptions
}

func NewResolver(
	rewriter *QueryRewriter,
	advisor *ComplexityAdvisor,
	fetcher ports.PostFetcher,
	observer ports.ResolveObserver,
	opts ResolverOptions,
) *Resolver {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = defaultFetchLimit
	}
	if opts.MaxFallbackAttempts <= 0 {
		opts.MaxFallbackAttempts = defaultMaxFallbackAttempts
	}
	return &Resolver{
		rewriter: rewriter,
		advisor:  advisor,
		fetcher:  fetcher,
		observer: observer,
		opts:     opts,
	}
}

func (r *Resolver) Resolve(ctx context.Context, rawInput string) (*domain.ResolutionOutcome, error) {
	req, err := NewSearchRequest(rawInput)
	if err != nil {
		return nil, err
	}

	query, source := r.resolveQuery(ctx, req)
	verdict := r.advisor.Assess(ctx, query)

	run := resolveRun{resolver: r, request: req, source: source, verdict: verdict}

	rows, err := run.attempt(ctx, query, domain.StrategyPrimary)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return run.finish(true, query, rows, domain.StrategyPrimary), nil
	}

	candidates := buildFallbackCandidates(req.Raw, query, verdict)
	for i, candidate := range candidates {
		if i >= r.opts.MaxFallbackAttempts {
			slog.Info("fallback_budget_exhausted",
				"input", req.Raw,
				"skipped", len(candidates)-i,
				"max_attempts", r.opts.MaxFallbackAttempts,
			)
			break
		}
		slog.Info("fallback_strategy",
			"attempt", i+1,
			"strategy", candidate.strategy,
			"query", candidate.query,
		)
		rows, err := run.attempt(ctx, candidate.query, candidate.strategy)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return run.finish(true, candidate.query, rows, candidate.strategy), nil
		}
	}

	slog.Warn("resolve_failed", "input", req.Raw, "query", query, "attempts", len(run.attempts))
	return run.finish(false, query, nil, domain.StrategyFailed), nil
}

func (r *Resolver) resolveQuery(ctx context.Context, req domain.SearchRequest) (string, domain.RewriteSource) {
	if req.Kind == domain.QueryStructured {
		return normalizeQueryLine(req.Sanitized), domain.RewriteNone
	}
	rewritten := r.rewriter.Rewrite(ctx, req.Sanitized)
	return rewritten.Query, rewritten.Source
}

// resolveRun owns the attempt history of a single Resolve call.
type resolveRun struct {
	resolver *Resolver
	request  domain.SearchRequest
	source   domain.RewriteSource
	verdict  domain.ComplexityVerdict
	attempts []domain.FetchAttempt
}

func (run *resolveRun) attempt(ctx context.Context, query, strategy string) ([]domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve %q: %w", run.request.Raw, err)
	}

	start := time.Now()
	rows, err := run.resolver.fetcher.Fetch(ctx, query, run.resolver.opts.FetchLimit)
	duration := time.Since(start)
	if err != nil {
		if domain.IsKind(err, domain.ErrMisconfigured) {
			return nil, fmt.Errorf("fetch posts: %w", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("resolve %q: %w", run.request.Raw, ctxErr)
		}
		slog.Error("fetch_attempt_failed", "strategy", strategy, "query", query, "error", err)
		rows = nil
	}

	run.attempts = append(run.attempts, domain.FetchAttempt{
		Query:    query,
		Strategy: strategy,
		Rows:     len(rows),
		Duration: duration,
	})
	if run.resolver.observer != nil {
		run.resolver.observer.ObserveFetchAttempt(strategy, len(rows), duration)
	}
	slog.Info("fetch_attempt",
		"strategy", strategy,
		"query", query,
		"rows", len(rows),
		"duration_ms", float64(duration.Microseconds())/1000.0,
	)
	return rows, nil
}

func (run *resolveRun) finish(success bool, query string, rows []domain.Post, strategy string) *domain.ResolutionOutcome {
	if run.resolver.observer != nil {
		run.resolver.observer.ObserveResolution(strategy, success)
	}
	if rows == nil {
		rows = []domain.Post{}
	}
	return &domain.ResolutionOutcome{
		Success:       success,
		OriginalInput: run.request.Raw,
		Query:         query,
		Rows:          rows,
		Strategy:      strategy,
		Kind:          run.request.Kind,
		RewriteSource: run.source,
		Verdict:       run.verdict,
		Attempts:      run.attempts,
	}
}
