package ports

import (
	"context"
	"time"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

// CompletionClient sends a single-turn prompt to the language completion service.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PostFetcher executes one structured query against the external data source.
// Data-source failures yield empty rows; only misconfiguration is returned as an error.
type PostFetcher interface {
	Fetch(ctx context.Context, query string, limit int) ([]domain.Post, error)
}

// TextPreprocessor cleans, tokenizes and normalizes fetched posts.
type TextPreprocessor interface {
	Preprocess(posts []domain.Post) []domain.ProcessedPost
	// StemEnglish drops English stop words from translated text and stems the rest.
	StemEnglish(text string) string
}

// Translator translates cleaned text into English.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// SentimentScorer scores a single English text.
type SentimentScorer interface {
	Score(text string) domain.SentimentScore
}

// ResultWriter persists analysed rows to files and returns the written paths.
type ResultWriter interface {
	Write(ctx context.Context, analysis *domain.Analysis) ([]string, error)
}

// AnalysisRepository persists analysis records.
type AnalysisRepository interface {
	Save(ctx context.Context, analysis *domain.Analysis) error
	GetByID(ctx context.Context, id string) (*domain.Analysis, error)
}

// Notifier delivers a text message to a chat channel or webhook.
type Notifier interface {
	Notify(ctx context.Context, content string) error
}

// JobQueue publishes and consumes queued analysis jobs.
type JobQueue interface {
	PublishAnalysisJob(ctx context.Context, job domain.AnalysisJob) error
	SubscribeAnalysisJobs(ctx context.Context, handler func(context.Context, domain.AnalysisJob) error) error
}

// ResolveObserver receives per-attempt and per-resolution signals for metrics.
type ResolveObserver interface {
	ObserveFetchAttempt(strategy string, rows int, duration time.Duration)
	ObserveResolution(strategy string, success bool)
}
