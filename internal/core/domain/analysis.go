package domain

import "time"

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

type SentimentScore struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
	Compound float64 `json:"compound"`
}

// Label applies the compound thresholds used across the pipeline.
func (s SentimentScore) Label() SentimentLabel {
	switch {
	case s.Compound > 0.05:
		return SentimentPositive
	case s.Compound < -0.05:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ProcessedPost is a fetched post after cleaning, translation and scoring.
type ProcessedPost struct {
	Post
	CleanText      string         `json:"clean_text"`
	Tokens         []string       `json:"tokens"`
	TranslatedText string         `json:"translated_text"`
	StemmedText    string         `json:"stemmed_text"`
	Score          SentimentScore `json:"score"`
	Sentiment      SentimentLabel `json:"sentiment"`
}

type SentimentSummary struct {
	Counts   map[SentimentLabel]int `json:"counts"`
	Majority SentimentLabel         `json:"majority"`
	Total    int                    `json:"total"`
}

type AnalysisStatus string

const (
	AnalysisCompleted AnalysisStatus = "completed"
	AnalysisNoData    AnalysisStatus = "no_data"
)

type Analysis struct {
	ID          string            `json:"id"`
	Status      AnalysisStatus    `json:"status"`
	Resolution  ResolutionOutcome `json:"resolution"`
	Summary     SentimentSummary  `json:"summary"`
	TopNegative []ProcessedPost   `json:"top_negative"`
	Posts       []ProcessedPost   `json:"-"`
	Report      string            `json:"report"`
	ResultFiles []string          `json:"result_files,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AnalysisJob is the queued unit of work produced by chat front ends.
type AnalysisJob struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Requester string    `json:"requester,omitempty"`
	ChannelID string    `json:"channel_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
