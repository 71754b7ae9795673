package textproc

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

var englishStopWords = toSet(
	"a", "an", "the", "and", "or", "but", "if", "then", "so", "of", "at", "by",
	"for", "with", "about", "to", "from", "in", "on", "into", "over", "under",
	"is", "am", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "i", "me", "my", "we", "our", "you", "your", "he", "him",
	"his", "she", "her", "it", "its", "they", "them", "their", "this", "that",
	"these", "those", "what", "which", "who", "whom", "there", "here", "as",
	"will", "would", "can", "could", "should", "just", "also", "than", "too",
)

// StemWord reduces an English word with the Porter2 stemmer.
func StemWord(word string) string {
	return english.Stem(word, false)
}

// StemEnglish lowercases text, drops English stop words and stems the rest.
func StemEnglish(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.Trim(field, ".,!?;:\"'()[]")
		if word == "" {
			continue
		}
		if _, stop := englishStopWords[word]; stop {
			continue
		}
		out = append(out, StemWord(word))
	}
	return strings.Join(out, " ")
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
