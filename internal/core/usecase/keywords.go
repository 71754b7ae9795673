package usecase

import (
	"strings"
	"unicode/utf8"
)

const (
	maxFallbackKeywords = 5
	maxSalientKeywords  = 3
	localeFilter        = "lang:id"
)

// rewriteStopWords are Indonesian function words dropped by the local rewrite fallback.
var rewriteStopWords = map[string]struct{}{
	"tentang": {}, "mengenai": {}, "dari": {}, "pada": {}, "di": {},
	"ke": {}, "yang": {}, "untuk": {}, "dengan": {},
}

// salientStopWords extends rewriteStopWords with question words for keyword-only fallback.
var salientStopWords = map[string]struct{}{
	"tentang": {}, "mengenai": {}, "dari": {}, "pada": {}, "di": {},
	"ke": {}, "yang": {}, "untuk": {}, "dengan": {}, "bagaimana": {},
	"apa": {}, "siapa": {}, "kapan": {}, "dimana": {},
}

var localeIndicators = []string{"indonesia", "indonesian", "jokowi", "pemilu", "presiden", "menteri"}

// fallbackKeywordQuery builds a query from input without calling any service.
// The locale filter, when implied, always survives the token cap.
func fallbackKeywordQuery(input string) string {
	lower := strings.ToLower(input)
	keywords := filterKeywords(lower, rewriteStopWords)

	withLocale := false
	for _, indicator := range localeIndicators {
		if strings.Contains(lower, indicator) {
			withLocale = true
			break
		}
	}

	limit := maxFallbackKeywords
	if withLocale {
		limit--
	}
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	if withLocale && !containsToken(keywords, localeFilter) {
		keywords = append(keywords, localeFilter)
	}
	return strings.Join(keywords, " ")
}

// salientKeywordQuery extracts up to three salient tokens from raw user input.
func salientKeywordQuery(input string) string {
	keywords := filterKeywords(strings.ToLower(input), salientStopWords)
	if len(keywords) > maxSalientKeywords {
		keywords = keywords[:maxSalientKeywords]
	}
	return SanitizeQuery(strings.Join(keywords, " "))
}

func filterKeywords(lower string, stopWords map[string]struct{}) []string {
	fields := strings.Fields(lower)
	out := make([]string, 0, len(fields))
	for _, word := range fields {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		out = append(out, word)
	}
	return out
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
