package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

type completionFake struct {
	rewrite    string
	complexity string
	err        error
	prompts    []string
}

func (f *completionFake) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if strings.Contains(prompt, "is_too_restrictive") {
		return f.complexity, nil
	}
	return f.rewrite, nil
}

type fetcherFake struct {
	mu      sync.Mutex
	rows    map[string][]domain.Post
	err     error
	queries []string
}

func (f *fetcherFake) Fetch(_ context.Context, query string, _ int) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[query], nil
}

type observerFake struct {
	attempts    []string
	resolutions []string
	success     []bool
}

func (f *observerFake) ObserveFetchAttempt(strategy string, _ int, _ time.Duration) {
	f.attempts = append(f.attempts, strategy)
}

func (f *observerFake) ObserveResolution(strategy string, success bool) {
	f.resolutions = append(f.resolutions, strategy)
	f.success = append(f.success, success)
}
