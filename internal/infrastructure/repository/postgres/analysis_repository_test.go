package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*AnalysisRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewAnalysisRepository(db), mock, func() { _ = db.Close() }
}

func sampleAnalysis() *domain.Analysis {
	return &domain.Analysis{
		ID:     "a-1",
		Status: domain.AnalysisCompleted,
		Resolution: domain.ResolutionOutcome{
			Success:       true,
			OriginalInput: "harga bbm",
			Query:         "harga bbm lang:id",
			Strategy:      domain.StrategyPrimary,
		},
		Summary: domain.SentimentSummary{
			Counts:   map[domain.SentimentLabel]int{domain.SentimentNegative: 2},
			Majority: domain.SentimentNegative,
			Total:    2,
		},
		Report:    "report",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestSaveInsertsIndexedColumns(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	a := sampleAnalysis()
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs("a-1", "completed", "harga bbm", "harga bbm lang:id", "primary", true, 2, "negative", sqlmock.AnyArg(), a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(context.Background(), a); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDDecodesPayload(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	payload, err := json.Marshal(sampleAnalysis())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	mock.ExpectQuery("SELECT payload").
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Resolution.Query != "harga bbm lang:id" || got.Summary.Majority != domain.SentimentNegative {
		t.Fatalf("unexpected analysis: %+v", got)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT payload").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCountByStrategy(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT strategy, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"strategy", "count"}).
			AddRow("primary", 4).
			AddRow("failed", 1))

	got, err := repo.CountByStrategy(context.Background())
	if err != nil {
		t.Fatalf("CountByStrategy() error = %v", err)
	}
	if got["primary"] != 4 || got["failed"] != 1 {
		t.Fatalf("unexpected counts: %v", got)
	}
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(schemaLockID).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS analyses").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
