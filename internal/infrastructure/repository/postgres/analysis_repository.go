package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

// AnalysisRepository stores analyses. Indexed columns mirror the JSON payload
// so history can be filtered without decoding it.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Save(ctx context.Context, analysis *domain.Analysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO analyses (
	id, status, original_input, resolved_query, strategy, success, total_posts, majority, payload, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
	status = EXCLUDED.status,
	total_posts = EXCLUDED.total_posts,
	majority = EXCLUDED.majority,
	payload = EXCLUDED.payload
`,
		analysis.ID, string(analysis.Status), analysis.Resolution.OriginalInput, analysis.Resolution.Query,
		analysis.Resolution.Strategy, analysis.Resolution.Success, analysis.Summary.Total,
		nullableString(string(analysis.Summary.Majority)), payload, analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*domain.Analysis, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
SELECT payload
FROM analyses
WHERE id = $1
`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get analysis", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	var analysis domain.Analysis
	if err := json.Unmarshal(payload, &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &analysis, nil
}

// CountByStrategy reports how many stored analyses each resolution strategy produced.
func (r *AnalysisRepository) CountByStrategy(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT strategy, COUNT(*)
FROM analyses
GROUP BY strategy
`)
	if err != nil {
		return nil, fmt.Errorf("query strategy counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var strategy string
		var n int
		if err := rows.Scan(&strategy, &n); err != nil {
			return nil, fmt.Errorf("scan strategy count: %w", err)
		}
		out[strategy] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strategy counts: %w", err)
	}
	return out, nil
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
