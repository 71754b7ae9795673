package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/x-sentiment/internal/adapters/chat"
	"github.com/kirillkom/x-sentiment/internal/config"
	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/core/ports"
	"github.com/kirillkom/x-sentiment/internal/observability/metrics"
)

const (
	serviceName      = "api"
	maxBodyBytes     = 64 << 10
	backpressureWait = 100 * time.Millisecond
)

type ChatDispatcher interface {
	Dispatch(ctx context.Context, msg chat.Message) (chat.Reply, error)
}

type Router struct {
	cfg      config.Config
	resolver ports.QueryResolver
	analyzer ports.SentimentAnalyzer
	analyses ports.AnalysisReader
	chat     ChatDispatcher
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	resolver ports.QueryResolver,
	analyzer ports.SentimentAnalyzer,
	analyses ports.AnalysisReader,
	chatDispatcher ChatDispatcher,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		resolver: resolver,
		analyzer: analyzer,
		analyses: analyses,
		chat:     chatDispatcher,
		metrics:  httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /v1/queries/resolve", rt.resolveQuery)
	api.HandleFunc("POST /v1/analyses", rt.createAnalysis)
	api.HandleFunc("GET /v1/analyses/{id}", rt.getAnalysis)
	api.HandleFunc("POST /v1/chat/messages", rt.postChatMessage)

	validator, err := newRequestValidator()
	if err != nil {
		slog.Error("openapi_validator_disabled", "error", err)
	}

	var rejected rejectionRecorder
	if rt.metrics != nil {
		rejected = rt.metrics
	}
	var guarded http.Handler = openAPIValidationMiddleware(api, validator)
	guarded = backpressureWithRecorder(guarded, rt.cfg.APIMaxInFlight, backpressureWait, rejected)
	guarded = rateLimitMiddleware(guarded, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rejected)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	mux.Handle("/v1/", guarded)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type resolveRequest struct {
	Input string `json:"input"`
}

type resolveResponse struct {
	*domain.ResolutionOutcome
	Rows []domain.Post `json:"rows"`
}

func (rt *Router) resolveQuery(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if rt.resolver == nil {
		writeError(w, r, domain.WrapError(domain.ErrMisconfigured, "resolve query", errors.New("resolver is not configured")))
		return
	}

	outcome, err := rt.resolver.Resolve(r.Context(), req.Input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{ResolutionOutcome: outcome, Rows: outcome.Rows})
}

type analysisRequest struct {
	Query string `json:"query"`
}

func (rt *Router) createAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if rt.analyzer == nil {
		writeError(w, r, domain.WrapError(domain.ErrMisconfigured, "create analysis", errors.New("analyzer is not configured")))
		return
	}

	analysis, err := rt.analyzer.Analyze(r.Context(), req.Query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAnalysis(serviceName, "analyses", string(analysis.Status), analysis.Summary.Total)
	}
	writeJSON(w, http.StatusCreated, analysis)
}

func (rt *Router) getAnalysis(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, domain.WrapError(domain.ErrValidation, "get analysis", errors.New("analysis id is required")))
		return
	}
	if rt.analyses == nil {
		writeError(w, r, domain.WrapError(domain.ErrNotFound, "get analysis", fmt.Errorf("id=%s", id)))
		return
	}

	analysis, err := rt.analyses.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) postChatMessage(w http.ResponseWriter, r *http.Request) {
	var msg chat.Message
	if !decodeJSON(w, r, &msg) {
		return
	}
	if rt.chat == nil {
		writeError(w, r, domain.WrapError(domain.ErrMisconfigured, "chat message", errors.New("chat is not configured")))
		return
	}

	reply, err := rt.chat.Dispatch(r.Context(), msg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordChatCommand(serviceName, reply.Command)
	}

	status := http.StatusOK
	if reply.JobID != "" {
		status = http.StatusAccepted
	}
	writeJSON(w, status, reply)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     "invalid json",
			RequestID: requestIDFromContext(r.Context()),
		})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed", "request_id", requestIDFromContext(r.Context()), "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		RequestID: requestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
