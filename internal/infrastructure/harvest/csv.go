package harvest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

// readPosts decodes harvest CSV output by header name. Missing columns and
// unparsable counters leave zero values.
func readPosts(r io.Reader) ([]domain.Post, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Post{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))] = i
	}
	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	count := func(record []string, name string) int {
		n, err := strconv.ParseFloat(field(record, name), 64)
		if err != nil {
			return 0
		}
		return int(n)
	}

	posts := make([]domain.Post, 0, 64)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return posts, fmt.Errorf("read csv record: %w", err)
		}
		text := field(record, "full_text")
		if text == "" {
			continue
		}
		posts = append(posts, domain.Post{
			FullText:      text,
			ReplyCount:    count(record, "reply_count"),
			RetweetCount:  count(record, "retweet_count"),
			FavoriteCount: count(record, "favorite_count"),
			Username:      field(record, "username"),
			URL:           field(record, "tweet_url"),
			Lang:          field(record, "lang"),
			CreatedAt:     parseCreatedAt(field(record, "created_at")),
		})
	}
	return posts, nil
}

var createdAtLayouts = []string{time.RubyDate, time.RFC3339, "2006-01-02 15:04:05"}

func parseCreatedAt(raw string) time.Time {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
