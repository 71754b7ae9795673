package usecase

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

const (
	defaultTopNegative   = 5
	reportPreviewRunes   = 100
	summaryLabelFallback = "None"
)

var summaryLabelOrder = []domain.SentimentLabel{
	domain.SentimentPositive,
	domain.SentimentNeutral,
	domain.SentimentNegative,
}

// SummarizeSentiment counts labels; the majority is the highest count with ties
// resolved in the order positive, neutral, negative.
func SummarizeSentiment(posts []domain.ProcessedPost) domain.SentimentSummary {
	counts := map[domain.SentimentLabel]int{
		domain.SentimentPositive: 0,
		domain.SentimentNegative: 0,
		domain.SentimentNeutral:  0,
	}
	for _, p := range posts {
		counts[p.Sentiment]++
	}

	var majority domain.SentimentLabel
	best := 0
	for _, label := range summaryLabelOrder {
		if counts[label] > best {
			best = counts[label]
			majority = label
		}
	}
	return domain.SentimentSummary{Counts: counts, Majority: majority, Total: len(posts)}
}

// TopNegative returns up to n negative posts ordered by reply count, highest first.
func TopNegative(posts []domain.ProcessedPost, n int) []domain.ProcessedPost {
	if n <= 0 {
		n = defaultTopNegative
	}
	negative := make([]domain.ProcessedPost, 0, len(posts))
	for _, p := range posts {
		if p.Sentiment == domain.SentimentNegative {
			negative = append(negative, p)
		}
	}
	sort.SliceStable(negative, func(i, j int) bool {
		return negative[i].ReplyCount > negative[j].ReplyCount
	})
	if len(negative) > n {
		negative = negative[:n]
	}
	return negative
}

// BuildReport renders the chat report body. It has no failure path.
func BuildReport(summary domain.SentimentSummary, topNegative []domain.ProcessedPost) string {
	var b strings.Builder
	b.WriteString("**📊 Overall Sentiment Distribution:**\n")
	fmt.Fprintf(&b, "✅ Positive: %d\n", summary.Counts[domain.SentimentPositive])
	fmt.Fprintf(&b, "❌ Negative: %d\n", summary.Counts[domain.SentimentNegative])
	fmt.Fprintf(&b, "⚪ Neutral: %d\n\n", summary.Counts[domain.SentimentNeutral])
	fmt.Fprintf(&b, "**🎯 Majority Sentiment:** %s\n\n", DisplayLabel(summary.Majority))

	if len(topNegative) > 0 {
		fmt.Fprintf(&b, "**🔻 Top %d Negative Tweets (by replies):**\n", len(topNegative))
		for _, p := range topNegative {
			fmt.Fprintf(&b, "📊 %d replies: %s\n\n", p.ReplyCount, Preview(p.FullText, reportPreviewRunes))
		}
	}
	return b.String()
}

// DisplayLabel capitalizes a sentiment label for rendering.
func DisplayLabel(label domain.SentimentLabel) string {
	if label == "" {
		return summaryLabelFallback
	}
	s := string(label)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Preview truncates text to limit runes, appending an ellipsis when cut.
func Preview(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit]) + "..."
}
