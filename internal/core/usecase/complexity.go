package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/core/ports"
)

const (
	unparsedVerdictConfidence    = 0.5
	unavailableVerdictConfidence = 0.3
)

// ComplexityAdvisor asks the completion service whether a query is too restrictive.
// Every path returns a verdict; failures yield a low-confidence negative one.
type ComplexityAdvisor struct {
	completion ports.CompletionClient
}

func NewComplexityAdvisor(completion ports.CompletionClient) *ComplexityAdvisor {
	return &ComplexityAdvisor{completion: completion}
}

func (a *ComplexityAdvisor) Assess(ctx context.Context, query string) domain.ComplexityVerdict {
	if a.completion == nil {
		return unavailableVerdict(query)
	}

	raw, err := a.completion.Complete(ctx, buildComplexityPrompt(query))
	if err != nil {
		slog.Warn("complexity_check_degraded", "query", query, "error", err)
		return unavailableVerdict(query)
	}

	verdict, err := parseComplexityVerdict(raw, query)
	if err != nil {
		slog.Warn("complexity_check_unparsed", "query", query, "error", err)
		return unparsedVerdict(query)
	}
	return verdict
}

type verdictPayload struct {
	TooRestrictive   bool     `json:"is_too_restrictive"`
	Confidence       *float64 `json:"confidence"`
	Suggestions      []string `json:"suggestions"`
	AlternativeQuery string   `json:"alternative_query"`
}

func parseComplexityVerdict(raw, query string) (domain.ComplexityVerdict, error) {
	span, ok := firstBalancedObject(raw)
	if !ok {
		return domain.ComplexityVerdict{}, errors.New("no json object in response")
	}

	var payload verdictPayload
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return domain.ComplexityVerdict{}, err
	}

	verdict := domain.ComplexityVerdict{
		TooRestrictive:   payload.TooRestrictive,
		Confidence:       unparsedVerdictConfidence,
		Suggestions:      compactStrings(payload.Suggestions),
		AlternativeQuery: normalizeModelQuery(payload.AlternativeQuery),
	}
	if payload.Confidence != nil {
		verdict.Confidence = clampUnit(*payload.Confidence)
	}
	if verdict.AlternativeQuery == "" {
		verdict.AlternativeQuery = query
	}
	return verdict, nil
}

// firstBalancedObject returns the first brace-delimited span whose braces balance,
// ignoring braces inside JSON string literals.
func firstBalancedObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

func unparsedVerdict(query string) domain.ComplexityVerdict {
	return domain.ComplexityVerdict{
		TooRestrictive:   false,
		Confidence:       unparsedVerdictConfidence,
		Suggestions:      []string{"No analysis available"},
		AlternativeQuery: query,
	}
}

func unavailableVerdict(query string) domain.ComplexityVerdict {
	return domain.ComplexityVerdict{
		TooRestrictive:   false,
		Confidence:       unavailableVerdictConfidence,
		Suggestions:      []string{"Analysis unavailable"},
		AlternativeQuery: query,
	}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
