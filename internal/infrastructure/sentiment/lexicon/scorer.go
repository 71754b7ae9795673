package lexicon

import (
	"strings"

	"github.com/jonreiter/govader"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

// Scorer scores English text with the VADER lexicon and rules.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *Scorer) Score(text string) domain.SentimentScore {
	if strings.TrimSpace(text) == "" {
		return domain.SentimentScore{Neutral: 1}
	}
	scores := s.analyzer.PolarityScores(text)
	return domain.SentimentScore{
		Negative: scores.Negative,
		Neutral:  scores.Neutral,
		Positive: scores.Positive,
		Compound: scores.Compound,
	}
}
