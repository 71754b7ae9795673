package domain

import "time"

// MaxQueryLength bounds raw user input and every query handed to the data source.
const MaxQueryLength = 500

type QueryKind string

const (
	QueryStructured      QueryKind = "structured"
	QueryNaturalLanguage QueryKind = "natural_language"
)

type RewriteSource string

const (
	RewriteAI               RewriteSource = "ai_rewritten"
	RewriteFallbackKeywords RewriteSource = "fallback_keywords"
	// RewriteNone marks structured input that was passed through verbatim.
	RewriteNone RewriteSource = "passthrough"
)

// Strategy labels recorded on fetch attempts and outcomes.
const (
	StrategyPrimary               = "primary"
	StrategyRemoveDateFilters     = "remove_date_filters"
	StrategyRemoveLanguageFilter  = "remove_language_filter"
	StrategyKeywordOnly           = "keyword_only"
	StrategyComplexityAlternative = "complexity_alternative"
	StrategyFailed                = "failed"
)

type SearchRequest struct {
	Raw       string    `json:"raw"`
	Sanitized string    `json:"sanitized"`
	Kind      QueryKind `json:"kind"`
}

type RewriteResult struct {
	Query  string        `json:"query"`
	Source RewriteSource `json:"source"`
}

type ComplexityVerdict struct {
	TooRestrictive   bool     `json:"is_too_restrictive"`
	Confidence       float64  `json:"confidence"`
	Suggestions      []string `json:"suggestions"`
	AlternativeQuery string   `json:"alternative_query"`
}

// Post is one row returned by the data source.
type Post struct {
	FullText      string    `json:"full_text"`
	ReplyCount    int       `json:"reply_count"`
	RetweetCount  int       `json:"retweet_count"`
	FavoriteCount int       `json:"favorite_count"`
	Username      string    `json:"username,omitempty"`
	URL           string    `json:"tweet_url,omitempty"`
	Lang          string    `json:"lang,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

type FetchAttempt struct {
	Query    string        `json:"query"`
	Strategy string        `json:"strategy"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
}

type ResolutionOutcome struct {
	Success       bool              `json:"success"`
	OriginalInput string            `json:"original_input"`
	Query         string            `json:"query"`
	Rows          []Post            `json:"-"`
	Strategy      string            `json:"strategy"`
	Kind          QueryKind         `json:"kind"`
	RewriteSource RewriteSource     `json:"rewrite_source"`
	Verdict       ComplexityVerdict `json:"complexity"`
	Attempts      []FetchAttempt    `json:"attempts"`
}
