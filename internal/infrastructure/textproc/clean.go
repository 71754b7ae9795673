package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern         = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionPattern     = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
	hashtagPattern     = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// CleanText lowercases text and removes markup, URLs, mentions, hashtags,
// punctuation and combining accents.
func CleanText(text string) string {
	text = stripMarkup(text)
	text = strings.ToLower(foldAccents(text))
	text = urlPattern.ReplaceAllString(text, " ")
	text = mentionPattern.ReplaceAllString(text, " ")
	text = hashtagPattern.ReplaceAllString(text, " ")
	text = punctuationPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// stripMarkup keeps only the text nodes of HTML fragments and decodes entities.
func stripMarkup(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func foldAccents(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}
