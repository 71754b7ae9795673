package localfs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

const sheetName = "results"

var resultColumns = []string{
	"full_text", "clean_text", "translated_text", "stemmed_text",
	"compound", "negative", "neutral", "positive", "sentiment",
	"reply_count", "retweet_count", "favorite_count",
	"username", "tweet_url", "created_at",
}

// Storage writes analysed rows as CSV and XLSX files under basePath.
type Storage struct {
	basePath string
	prefix   string
}

// New creates basePath when missing. prefix names result files; an extension is ignored.
func New(basePath, prefix string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/results"
	}
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), filepath.Ext(prefix))
	if prefix == "" {
		prefix = "hasil_crawling"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath, prefix: prefix}, nil
}

// Write stores the analysis rows and returns the CSV and XLSX paths.
func (s *Storage) Write(ctx context.Context, analysis *domain.Analysis) ([]string, error) {
	if analysis == nil {
		return nil, fmt.Errorf("write results: analysis is nil")
	}
	base := s.prefix + "-" + analysis.ID

	var buf bytes.Buffer
	if err := writeCSV(&buf, analysis.Posts); err != nil {
		return nil, err
	}
	csvPath, err := s.save(ctx, base+".csv", &buf)
	if err != nil {
		return nil, err
	}

	xlsxPath := filepath.Join(s.basePath, base+".xlsx")
	if err := writeWorkbook(xlsxPath, analysis.Posts); err != nil {
		return []string{csvPath}, err
	}
	return []string{csvPath, xlsxPath}, nil
}

func (s *Storage) save(ctx context.Context, key string, data io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.basePath, key)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

func writeCSV(w io.Writer, posts []domain.ProcessedPost) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range posts {
		record := make([]string, 0, len(resultColumns))
		for _, v := range row(p) {
			record = append(record, fmt.Sprint(v))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeWorkbook(path string, posts []domain.ProcessedPost) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]any, len(resultColumns))
	for i, c := range resultColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, p := range posts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(p)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func row(p domain.ProcessedPost) []any {
	created := ""
	if !p.CreatedAt.IsZero() {
		created = p.CreatedAt.Format(time.RFC3339)
	}
	return []any{
		p.FullText, p.CleanText, p.TranslatedText, p.StemmedText,
		strconv.FormatFloat(p.Score.Compound, 'f', 4, 64), p.Score.Negative, p.Score.Neutral, p.Score.Positive,
		string(p.Sentiment),
		p.ReplyCount, p.RetweetCount, p.FavoriteCount,
		p.Username, p.URL, created,
	}
}
