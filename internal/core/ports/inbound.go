package ports

import (
	"context"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

// QueryResolver is the inbound contract for turning user input into fetched rows.
type QueryResolver interface {
	Resolve(ctx context.Context, rawInput string) (*domain.ResolutionOutcome, error)
}

// SentimentAnalyzer runs the full resolve, score and report pipeline.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, rawInput string) (*domain.Analysis, error)
}

// AnalysisReader is the read model for stored analyses.
type AnalysisReader interface {
	GetByID(ctx context.Context, id string) (*domain.Analysis, error)
}
