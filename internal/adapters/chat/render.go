package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/core/usecase"
)

const (
	// MessageLimit is the maximum length of one chat message.
	MessageLimit    = 2000
	fieldLimit      = 1024
	previewRunes    = 80
	reportHeader    = "**📋 Laporan Detail:**\n"
	truncatedSuffix = "..."
)

// RenderAnalysis turns a finished analysis into chat messages: a summary card
// followed by the detailed report.
func RenderAnalysis(analysis *domain.Analysis) []string {
	query := analysis.Resolution.Query
	if analysis.Status == domain.AnalysisNoData {
		return []string{fmt.Sprintf(
			"❌ **Tidak ada tweet yang ditemukan untuk query:** `%s`\nCoba ubah kata kunci atau rentang waktu.",
			query,
		)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**📊 Hasil Analisis Sentimen**\n**Query:** `%s`\n", query)
	if analysis.Resolution.Strategy != "" && analysis.Resolution.Strategy != domain.StrategyPrimary {
		fmt.Fprintf(&b, "_Strategi pencarian: %s_\n", analysis.Resolution.Strategy)
	}
	b.WriteString("\n")
	b.WriteString(distributionField(analysis.Summary))
	fmt.Fprintf(&b, "\n**🎯 Sentimen Mayoritas:** **%s**\n", usecase.DisplayLabel(analysis.Summary.Majority))
	fmt.Fprintf(&b, "**📊 Total Tweet:** **%d** tweet dianalisis\n", analysis.Summary.Total)

	if field := negativeField(analysis.TopNegative); field != "" {
		b.WriteString("\n**🔻 Top Negative Tweets**\n")
		b.WriteString(field)
	}

	return []string{
		truncate(strings.TrimRight(b.String(), "\n"), MessageLimit),
		truncate(reportHeader+analysis.Report, MessageLimit),
	}
}

// RenderFailure is sent when an offloaded analysis fails.
func RenderFailure(query string, err error) string {
	msg := fmt.Sprintf(
		"❌ **Error selama analisis sentimen**\n\n**Query:** `%s`\n\n**Error:** ```%s```\n\nSilakan coba lagi dengan query yang berbeda atau hubungi administrator.",
		query, err.Error(),
	)
	return truncate(msg, MessageLimit)
}

func distributionField(summary domain.SentimentSummary) string {
	return fmt.Sprintf(
		"**📈 Distribusi Sentimen**\n✅ **Positive:** %d\n❌ **Negative:** %d\n⚪ **Neutral:** %d\n",
		summary.Counts[domain.SentimentPositive],
		summary.Counts[domain.SentimentNegative],
		summary.Counts[domain.SentimentNeutral],
	)
}

func negativeField(posts []domain.ProcessedPost) string {
	if len(posts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, post := range posts {
		fmt.Fprintf(&b, "%d. (%d replies) %s\n", i+1, post.ReplyCount, usecase.Preview(post.FullText, previewRunes))
	}
	return truncate(b.String(), fieldLimit)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	keep := limit - len(truncatedSuffix)
	return string([]rune(s)[:keep]) + truncatedSuffix
}
