package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/x-sentiment/internal/adapters/chat"
	"github.com/kirillkom/x-sentiment/internal/config"
	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/observability/metrics"
)

type resolverFake struct {
	outcome *domain.ResolutionOutcome
	err     error
}

func (f resolverFake) Resolve(context.Context, string) (*domain.ResolutionOutcome, error) {
	return f.outcome, f.err
}

type analyzerFake struct {
	err error
}

func (f analyzerFake) Analyze(_ context.Context, raw string) (*domain.Analysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Analysis{
		ID:         "a-1",
		Status:     domain.AnalysisCompleted,
		Resolution: domain.ResolutionOutcome{Success: true, Query: raw},
		Summary:    domain.SentimentSummary{Total: 3, Majority: domain.SentimentNeutral},
	}, nil
}

type readerFake struct{}

func (readerFake) GetByID(_ context.Context, id string) (*domain.Analysis, error) {
	if id != "a-1" {
		return nil, domain.WrapError(domain.ErrNotFound, "get analysis", errors.New("id="+id))
	}
	return &domain.Analysis{ID: id, Status: domain.AnalysisCompleted}, nil
}

type chatFake struct{}

func (chatFake) Dispatch(_ context.Context, msg chat.Message) (chat.Reply, error) {
	if strings.HasPrefix(msg.Content, "@XS") {
		return chat.Reply{Command: chat.CommandAnalysis, JobID: "job-1", Messages: []string{"started"}}, nil
	}
	return chat.Reply{Command: chat.CommandHelp, Messages: []string{"help"}}, nil
}

func newTestHandler(cfg config.Config) http.Handler {
	outcome := &domain.ResolutionOutcome{
		Success:  true,
		Query:    "pemilu",
		Strategy: domain.StrategyPrimary,
		Rows:     []domain.Post{{FullText: "halo", ReplyCount: 2}},
	}
	return NewRouter(
		cfg,
		resolverFake{outcome: outcome},
		analyzerFake{},
		readerFake{},
		chatFake{},
		metrics.NewHTTPServerMetrics(serviceName),
	).Handler()
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestResolveReturnsOutcomeWithRows(t *testing.T) {
	res := postJSON(t, newTestHandler(config.Config{}), "/v1/queries/resolve", map[string]string{"input": "pemilu"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var body struct {
		Success  bool          `json:"success"`
		Strategy string        `json:"strategy"`
		Rows     []domain.Post `json:"rows"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Strategy != "primary" || len(body.Rows) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestResolveMapsValidationTo400(t *testing.T) {
	handler := NewRouter(
		config.Config{},
		resolverFake{err: domain.WrapError(domain.ErrValidation, "resolve", errors.New("input too long"))},
		nil, nil, nil, nil,
	).Handler()

	res := postJSON(t, handler, "/v1/queries/resolve", map[string]string{"input": "x"})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestOpenAPIValidationRejectsMissingField(t *testing.T) {
	res := postJSON(t, newTestHandler(config.Config{}), "/v1/analyses", map[string]string{"q": "pemilu"})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "api schema") {
		t.Fatalf("expected schema error, got %s", res.Body.String())
	}
}

func TestCreateAndGetAnalysis(t *testing.T) {
	handler := newTestHandler(config.Config{})

	res := postJSON(t, handler, "/v1/analyses", map[string]string{"query": "pemilu"})
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/analyses/a-1", nil)
	got := httptest.NewRecorder()
	handler.ServeHTTP(got, req)
	if got.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", got.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/analyses/missing", nil)
	missing := httptest.NewRecorder()
	handler.ServeHTTP(missing, req)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}
}

func TestCreateAnalysisMapsMisconfiguration(t *testing.T) {
	handler := NewRouter(
		config.Config{},
		nil,
		analyzerFake{err: domain.WrapError(domain.ErrMisconfigured, "fetch", errors.New("missing token"))},
		nil, nil, nil,
	).Handler()

	res := postJSON(t, handler, "/v1/analyses", map[string]string{"query": "pemilu"})
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestChatMessageStatusCodes(t *testing.T) {
	handler := newTestHandler(config.Config{})

	res := postJSON(t, handler, "/v1/chat/messages", map[string]string{"content": "@XS pemilu"})
	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for offloaded analysis, got %d", res.Code)
	}
	res = postJSON(t, handler, "/v1/chat/messages", map[string]string{"content": "!help"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for help, got %d", res.Code)
	}
}

func TestMetricsEndpointExposesHTTPCounters(t *testing.T) {
	handler := newTestHandler(config.Config{})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(res.Body.String(), "xsentiment_http_requests_total") {
		t.Fatalf("expected http metrics, got %s", res.Body.String())
	}
}
