package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

type resolverFake struct {
	outcome *domain.ResolutionOutcome
	err     error
}

func (f *resolverFake) Resolve(context.Context, string) (*domain.ResolutionOutcome, error) {
	return f.outcome, f.err
}

type preprocessorFake struct{}

func (preprocessorFake) Preprocess(posts []domain.Post) []domain.ProcessedPost {
	out := make([]domain.ProcessedPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, domain.ProcessedPost{Post: p, CleanText: strings.ToLower(p.FullText)})
	}
	return out
}

func (preprocessorFake) StemEnglish(text string) string { return "stem:" + text }

type translatorFake struct {
	mu    sync.Mutex
	calls int
	fail  map[string]bool
}

func (f *translatorFake) Translate(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail[text] {
		return "", errors.New("translate failed")
	}
	return "en:" + text, nil
}

// scorerFake scores by keyword in the translated text.
type scorerFake struct{}

func (scorerFake) Score(text string) domain.SentimentScore {
	switch {
	case strings.Contains(text, "good"):
		return domain.SentimentScore{Compound: 0.6}
	case strings.Contains(text, "bad"):
		return domain.SentimentScore{Compound: -0.6}
	default:
		return domain.SentimentScore{}
	}
}

type writerFake struct {
	err   error
	calls int
}

func (f *writerFake) Write(context.Context, *domain.Analysis) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []string{"results/a.csv", "results/a.xlsx"}, nil
}

type repoFake struct {
	saved []*domain.Analysis
}

func (f *repoFake) Save(_ context.Context, a *domain.Analysis) error {
	f.saved = append(f.saved, a)
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Analysis, error) {
	for _, a := range f.saved {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get analysis", errors.New(id))
}

type notifierFake struct {
	messages []string
}

func (f *notifierFake) Notify(_ context.Context, content string) error {
	f.messages = append(f.messages, content)
	return nil
}

func successfulOutcome(posts ...domain.Post) *domain.ResolutionOutcome {
	return &domain.ResolutionOutcome{Success: true, Query: "kopi", Strategy: domain.StrategyPrimary, Rows: posts}
}

func TestAnalyzeScoresTranslatedText(t *testing.T) {
	resolver := &resolverFake{outcome: successfulOutcome(
		domain.Post{FullText: "GOOD coffee", ReplyCount: 1},
		domain.Post{FullText: "bad service", ReplyCount: 9},
		domain.Post{FullText: "bad queue", ReplyCount: 3},
		domain.Post{FullText: "plain", ReplyCount: 0},
	)}
	translator := &translatorFake{}
	writer := &writerFake{}
	repo := &repoFake{}
	notifier := &notifierFake{}
	svc := NewAnalysisService(resolver, preprocessorFake{}, translator, scorerFake{}, writer, repo, notifier, AnalysisOptions{})

	analysis, err := svc.Analyze(context.Background(), "kopi")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.Status != domain.AnalysisCompleted || analysis.ID == "" {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
	if translator.calls != 4 {
		t.Fatalf("expected 4 translations, got %d", translator.calls)
	}
	if got := analysis.Posts[0].TranslatedText; got != "en:good coffee" {
		t.Fatalf("unexpected translation: %q", got)
	}
	if got := analysis.Posts[0].StemmedText; got != "stem:en:good coffee" {
		t.Fatalf("unexpected stem: %q", got)
	}
	if analysis.Summary.Counts[domain.SentimentNegative] != 2 || analysis.Summary.Majority != domain.SentimentNegative {
		t.Fatalf("unexpected summary: %+v", analysis.Summary)
	}
	if len(analysis.TopNegative) != 2 || analysis.TopNegative[0].ReplyCount != 9 {
		t.Fatalf("unexpected top negative: %+v", analysis.TopNegative)
	}
	if len(analysis.ResultFiles) != 2 || len(repo.saved) != 1 || len(notifier.messages) != 1 {
		t.Fatalf("expected outputs to be written, stored and sent")
	}
	if !strings.Contains(notifier.messages[0], "❌ Negative: 2") {
		t.Fatalf("unexpected report: %s", notifier.messages[0])
	}

	stored, err := svc.GetByID(context.Background(), analysis.ID)
	if err != nil || stored != analysis {
		t.Fatalf("GetByID() = %v, %v", stored, err)
	}
}

func TestAnalyzeKeepsSourceTextWhenTranslationFails(t *testing.T) {
	resolver := &resolverFake{outcome: successfulOutcome(domain.Post{FullText: "bad"})}
	translator := &translatorFake{fail: map[string]bool{"bad": true}}
	svc := NewAnalysisService(resolver, preprocessorFake{}, translator, scorerFake{}, nil, nil, nil, AnalysisOptions{})

	analysis, err := svc.Analyze(context.Background(), "x")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.Posts[0].TranslatedText != "bad" || analysis.Posts[0].Sentiment != domain.SentimentNegative {
		t.Fatalf("unexpected post: %+v", analysis.Posts[0])
	}
}

func TestAnalyzeNoData(t *testing.T) {
	resolver := &resolverFake{outcome: &domain.ResolutionOutcome{Success: false, Query: "kopi lang:id", Strategy: domain.StrategyFailed}}
	writer := &writerFake{}
	repo := &repoFake{}
	svc := NewAnalysisService(resolver, preprocessorFake{}, nil, scorerFake{}, writer, repo, nil, AnalysisOptions{})

	analysis, err := svc.Analyze(context.Background(), "kopi")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.Status != domain.AnalysisNoData || !strings.Contains(analysis.Report, "kopi lang:id") {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
	if writer.calls != 0 || len(repo.saved) != 1 {
		t.Fatalf("expected no files and one stored record")
	}
}

func TestAnalyzeWriterFailureIsNotFatal(t *testing.T) {
	resolver := &resolverFake{outcome: successfulOutcome(domain.Post{FullText: "good"})}
	svc := NewAnalysisService(resolver, preprocessorFake{}, nil, scorerFake{}, &writerFake{err: errors.New("disk full")}, nil, nil, AnalysisOptions{})

	analysis, err := svc.Analyze(context.Background(), "x")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(analysis.ResultFiles) != 0 || analysis.Summary.Majority != domain.SentimentPositive {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
}

func TestAnalyzePropagatesResolveError(t *testing.T) {
	resolver := &resolverFake{err: domain.WrapError(domain.ErrValidation, "validate query", errors.New("empty"))}
	svc := NewAnalysisService(resolver, preprocessorFake{}, nil, scorerFake{}, nil, nil, nil, AnalysisOptions{})
	if _, err := svc.Analyze(context.Background(), ""); !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByIDWithoutRepository(t *testing.T) {
	svc := NewAnalysisService(&resolverFake{}, preprocessorFake{}, nil, scorerFake{}, nil, nil, nil, AnalysisOptions{})
	if _, err := svc.GetByID(context.Background(), "missing"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
