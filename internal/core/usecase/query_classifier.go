package usecase

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

var (
	disallowedQueryChars = regexp.MustCompile(`[^\p{L}\p{N}_\s#@:.\-"()?]`)

	operatorPattern   = regexp.MustCompile(`(?i)(from|since|until|lang|filter):`)
	exclusionPattern  = regexp.MustCompile(`(^|\s)-[^\s-]`)
	tagPattern        = regexp.MustCompile(`[#@][\p{L}\p{N}_]`)
	phrasePattern     = regexp.MustCompile(`"[^"]+"`)
	connectivePattern = regexp.MustCompile(`(^|\s)(OR|AND)(\s|$)`)
)

// NewSearchRequest validates and sanitizes raw user input and classifies the result.
func NewSearchRequest(raw string) (domain.SearchRequest, error) {
	if err := validateRawInput(raw); err != nil {
		return domain.SearchRequest{}, err
	}
	sanitized := SanitizeQuery(raw)
	if sanitized == "" {
		return domain.SearchRequest{}, domain.WrapError(
			domain.ErrValidation, "sanitize query", errors.New("query has no searchable characters"),
		)
	}
	return domain.SearchRequest{
		Raw:       raw,
		Sanitized: sanitized,
		Kind:      ClassifyQuery(sanitized),
	}, nil
}

func validateRawInput(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return domain.WrapError(domain.ErrValidation, "validate query", errors.New("query is empty"))
	}
	if utf8.RuneCountInString(raw) > domain.MaxQueryLength {
		return domain.WrapError(
			domain.ErrValidation,
			"validate query",
			errors.New("query exceeds 500 characters"),
		)
	}
	return nil
}

// SanitizeQuery keeps word characters, whitespace and the search operator
// characters # @ : . - " ( ) ? and trims the result.
func SanitizeQuery(raw string) string {
	return strings.TrimSpace(disallowedQueryChars.ReplaceAllString(raw, ""))
}

// ClassifyQuery reports whether sanitized text already uses search syntax.
func ClassifyQuery(sanitized string) domain.QueryKind {
	text := strings.TrimSpace(sanitized)
	if text == "" || !utf8.ValidString(text) {
		return domain.QueryNaturalLanguage
	}
	switch {
	case operatorPattern.MatchString(text),
		exclusionPattern.MatchString(text),
		tagPattern.MatchString(text),
		phrasePattern.MatchString(text),
		strings.Contains(text, "?"),
		connectivePattern.MatchString(text):
		return domain.QueryStructured
	default:
		return domain.QueryNaturalLanguage
	}
}
