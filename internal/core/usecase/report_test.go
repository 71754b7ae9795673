package usecase

import (
	"strings"
	"testing"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

func processed(label domain.SentimentLabel, replies int, text string) domain.ProcessedPost {
	return domain.ProcessedPost{
		Post:      domain.Post{FullText: text, ReplyCount: replies},
		Sentiment: label,
	}
}

func TestSummarizeSentimentTieBreak(t *testing.T) {
	posts := []domain.ProcessedPost{
		processed(domain.SentimentNegative, 0, "a"),
		processed(domain.SentimentNeutral, 0, "b"),
		processed(domain.SentimentNegative, 0, "c"),
		processed(domain.SentimentNeutral, 0, "d"),
	}
	summary := SummarizeSentiment(posts)
	if summary.Majority != domain.SentimentNeutral || summary.Total != 4 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Counts[domain.SentimentPositive] != 0 {
		t.Fatalf("expected zero positive count to be present")
	}

	empty := SummarizeSentiment(nil)
	if empty.Majority != "" || empty.Total != 0 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestTopNegativeOrdersByReplies(t *testing.T) {
	var posts []domain.ProcessedPost
	for i := 0; i < 7; i++ {
		posts = append(posts, processed(domain.SentimentNegative, i, "neg"))
	}
	posts = append(posts, processed(domain.SentimentPositive, 100, "pos"))

	top := TopNegative(posts, 5)
	if len(top) != 5 || top[0].ReplyCount != 6 || top[4].ReplyCount != 2 {
		t.Fatalf("unexpected top negative: %+v", top)
	}
}

func TestBuildReport(t *testing.T) {
	long := strings.Repeat("x", 150)
	summary := domain.SentimentSummary{
		Counts: map[domain.SentimentLabel]int{
			domain.SentimentPositive: 3,
			domain.SentimentNegative: 1,
			domain.SentimentNeutral:  2,
		},
		Majority: domain.SentimentPositive,
		Total:    6,
	}
	report := BuildReport(summary, []domain.ProcessedPost{processed(domain.SentimentNegative, 12, long)})

	for _, want := range []string{
		"✅ Positive: 3",
		"❌ Negative: 1",
		"⚪ Neutral: 2",
		"**🎯 Majority Sentiment:** Positive",
		"Top 1 Negative Tweets",
		"📊 12 replies: " + strings.Repeat("x", 100) + "...",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}

	if strings.Contains(BuildReport(summary, nil), "Top") {
		t.Fatalf("expected no negative section without negative posts")
	}
}

func TestDisplayLabel(t *testing.T) {
	if DisplayLabel("") != "None" || DisplayLabel(domain.SentimentNeutral) != "Neutral" {
		t.Fatalf("unexpected labels")
	}
}
