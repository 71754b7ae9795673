package usecase

import (
	"regexp"
	"strings"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

var (
	dateFilterPattern     = regexp.MustCompile(`(?i)(^|\s)-?(since|until):\S*`)
	languageFilterPattern = regexp.MustCompile(`(?i)(^|\s)-?lang:\S*`)
)

type fallbackCandidate struct {
	query    string
	strategy string
}

// buildFallbackCandidates derives alternative queries in fixed precedence:
// date filters removed, language filter removed, keyword-only, complexity alternative.
// Each strategy contributes at most one candidate; empty and repeated queries are skipped.
func buildFallbackCandidates(rawInput, resolved string, verdict domain.ComplexityVerdict) []fallbackCandidate {
	candidates := make([]fallbackCandidate, 0, 4)
	seen := map[string]struct{}{resolved: {}}
	add := func(query, strategy string) {
		query = normalizeQueryLine(query)
		if query == "" {
			return
		}
		if _, dup := seen[query]; dup {
			return
		}
		seen[query] = struct{}{}
		candidates = append(candidates, fallbackCandidate{query: query, strategy: strategy})
	}

	if dateFilterPattern.MatchString(resolved) {
		add(removeDateFilters(resolved), domain.StrategyRemoveDateFilters)
	}
	if languageFilterPattern.MatchString(resolved) {
		add(removeLanguageFilter(resolved), domain.StrategyRemoveLanguageFilter)
	}
	if keywords := salientKeywordQuery(rawInput); keywords != resolved {
		add(keywords, domain.StrategyKeywordOnly)
	}
	if verdict.TooRestrictive && verdict.AlternativeQuery != resolved {
		add(verdict.AlternativeQuery, domain.StrategyComplexityAlternative)
	}
	return candidates
}

func removeDateFilters(query string) string {
	return collapseSpaces(dateFilterPattern.ReplaceAllString(query, " "))
}

func removeLanguageFilter(query string) string {
	return collapseSpaces(languageFilterPattern.ReplaceAllString(query, " "))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
