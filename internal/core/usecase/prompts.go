package usecase

import "fmt"

func buildRewritePrompt(userInput string) string {
	return fmt.Sprintf(`Convert this natural language query into an effective Twitter/X search query.

USER INPUT: "%s"

RULES:
1. Use Twitter Advanced Search operators: from:, since:, until:, lang:.
2. For Indonesian content, add "lang:id" when relevant.
3. Use quotes for exact phrases.
4. Use - to exclude terms.
5. Use OR for alternatives.
6. Keep it under 500 characters.
7. Make it specific but effective for sentiment analysis.
8. If no date is specified, use a reasonable default (last 30 days).

Respond ONLY with the optimized search query on a single line, no explanations.

Examples:
- "sentimen pemilu 2024" -> #pemilu2024 lang:id since:2024-01-01
- "tweet dari jokowi bulan januari" -> from:jokowi since:2024-01-01 until:2024-01-31 lang:id
- "opinion about python programming" -> python programming
- "startup di indonesia" -> startup Indonesia OR startup lang:id

OPTIMIZED QUERY:`, userInput)
}

func buildComplexityPrompt(query string) string {
	return fmt.Sprintf(`Analyze this Twitter search query and decide whether it is too restrictive to return results.

QUERY: "%s"

Check for:
1. Overly specific date ranges (less than 3 days)
2. Too many exclusion terms
3. Very niche keywords
4. Combination of multiple restrictive filters

Respond with JSON only:
{
  "is_too_restrictive": true or false,
  "confidence": number from 0.0 to 1.0,
  "suggestions": ["suggestion1", "suggestion2"],
  "alternative_query": "less restrictive version if needed"
}`, query)
}
