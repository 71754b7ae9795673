package textproc

import (
	"log/slog"
	"strings"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

// Preprocessor prepares fetched posts for translation and scoring.
type Preprocessor struct{}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Preprocess drops posts whose text repeats an earlier one, cleans and tokenizes
// the rest and normalizes slang. Input order is kept.
func (p *Preprocessor) Preprocess(posts []domain.Post) []domain.ProcessedPost {
	seen := make(map[string]struct{}, len(posts))
	out := make([]domain.ProcessedPost, 0, len(posts))
	for _, post := range posts {
		key := strings.TrimSpace(post.FullText)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		tokens := NormalizeSlang(strings.Fields(CleanText(post.FullText)))
		out = append(out, domain.ProcessedPost{
			Post:      post,
			Tokens:    tokens,
			CleanText: strings.Join(tokens, " "),
		})
	}
	slog.Info("posts_preprocessed", "input", len(posts), "kept", len(out))
	return out
}

func (p *Preprocessor) StemEnglish(text string) string {
	return StemEnglish(text)
}
