package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/core/ports"
)

const defaultTranslationConcurrency = 4

type AnalysisOptions struct {
	TranslationConcurrency int
	TopNegative            int
}

// AnalysisService runs resolution, text processing, scoring and reporting.
// Writer, repository, notifier and translator are optional.
type AnalysisService struct {
	resolver     ports.QueryResolver
	preprocessor ports.TextPreprocessor
	translator   ports.Translator
	scorer       ports.SentimentScorer
	writer       ports.ResultWriter
	repo         ports.AnalysisRepository
	notifier     ports.Notifier
	opts         AnalysisOptions
}

func NewAnalysisService(
	resolver ports.QueryResolver,
	preprocessor ports.TextPreprocessor,
	translator ports.Translator,
	scorer ports.SentimentScorer,
	writer ports.ResultWriter,
	repo ports.AnalysisRepository,
	notifier ports.Notifier,
	opts AnalysisOptions,
) *AnalysisService {
	if opts.TranslationConcurrency <= 0 {
		opts.TranslationConcurrency = defaultTranslationConcurrency
	}
	if opts.TopNegative <= 0 {
		opts.TopNegative = defaultTopNegative
	}
	return &AnalysisService{
		resolver:     resolver,
		preprocessor: preprocessor,
		translator:   translator,
		scorer:       scorer,
		writer:       writer,
		repo:         repo,
		notifier:     notifier,
		opts:         opts,
	}
}

// WithoutNotifier returns a copy that leaves report delivery to the caller.
func (s *AnalysisService) WithoutNotifier() ports.SentimentAnalyzer {
	detached := *s
	detached.notifier = nil
	return &detached
}

func (s *AnalysisService) Analyze(ctx context.Context, rawInput string) (*domain.Analysis, error) {
	outcome, err := s.resolver.Resolve(ctx, rawInput)
	if err != nil {
		return nil, fmt.Errorf("resolve query: %w", err)
	}

	analysis := &domain.Analysis{
		ID:         uuid.NewString(),
		Resolution: *outcome,
		CreatedAt:  time.Now().UTC(),
	}

	if !outcome.Success {
		analysis.Status = domain.AnalysisNoData
		analysis.Summary = SummarizeSentiment(nil)
		analysis.Report = fmt.Sprintf("No tweets found for query: `%s`. Try different keywords or a wider date range.", outcome.Query)
		s.persist(ctx, analysis)
		return analysis, nil
	}

	posts := s.preprocessor.Preprocess(outcome.Rows)
	if err := s.translate(ctx, posts); err != nil {
		return nil, fmt.Errorf("translate posts: %w", err)
	}
	for i := range posts {
		posts[i].StemmedText = s.preprocessor.StemEnglish(posts[i].TranslatedText)
		posts[i].Score = s.scorer.Score(posts[i].TranslatedText)
		posts[i].Sentiment = posts[i].Score.Label()
	}

	analysis.Status = domain.AnalysisCompleted
	analysis.Posts = posts
	analysis.Summary = SummarizeSentiment(posts)
	analysis.TopNegative = TopNegative(posts, s.opts.TopNegative)
	analysis.Report = BuildReport(analysis.Summary, analysis.TopNegative)

	if s.writer != nil {
		files, err := s.writer.Write(ctx, analysis)
		if err != nil {
			slog.Error("result_write_failed", "analysis_id", analysis.ID, "error", err)
		}
		analysis.ResultFiles = files
	}
	s.persist(ctx, analysis)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, analysis.Report); err != nil {
			slog.Warn("report_notify_failed", "analysis_id", analysis.ID, "error", err)
		}
	}

	slog.Info("analysis_completed",
		"analysis_id", analysis.ID,
		"query", outcome.Query,
		"strategy", outcome.Strategy,
		"total", analysis.Summary.Total,
		"majority", analysis.Summary.Majority,
	)
	return analysis, nil
}

// translate fills TranslatedText with bounded concurrency. A failed row keeps its
// cleaned source text; only context cancellation aborts the batch.
func (s *AnalysisService) translate(ctx context.Context, posts []domain.ProcessedPost) error {
	if s.translator == nil {
		for i := range posts {
			posts[i].TranslatedText = posts[i].CleanText
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.TranslationConcurrency)
	for i := range posts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			translated, err := s.translator.Translate(gctx, posts[i].CleanText)
			if err != nil || translated == "" {
				if err != nil {
					slog.Warn("translation_failed", "error", err)
				}
				translated = posts[i].CleanText
			}
			posts[i].TranslatedText = translated
			return nil
		})
	}
	return g.Wait()
}

func (s *AnalysisService) persist(ctx context.Context, analysis *domain.Analysis) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, analysis); err != nil {
		slog.Error("analysis_persist_failed", "analysis_id", analysis.ID, "error", err)
	}
}

// GetByID reads a stored analysis.
func (s *AnalysisService) GetByID(ctx context.Context, id string) (*domain.Analysis, error) {
	if s.repo == nil {
		return nil, domain.WrapError(domain.ErrNotFound, "get analysis", fmt.Errorf("id=%s: persistence disabled", id))
	}
	return s.repo.GetByID(ctx, id)
}
