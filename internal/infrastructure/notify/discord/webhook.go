package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/resilience"
)

// MessageLimit is the maximum content length Discord accepts per message.
const MessageLimit = 2000

type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("discord webhook status: %s", e.Status)
	}
	return fmt.Sprintf("discord webhook status: %s: %s", e.Status, strings.TrimSpace(e.Body))
}

// WebhookNotifier posts messages to a Discord webhook, splitting long content.
type WebhookNotifier struct {
	url        string
	username   string
	httpClient *http.Client
	executor   *resilience.Executor
}

func NewWebhookNotifier(url string, executor *resilience.Executor) *WebhookNotifier {
	return &WebhookNotifier{
		url:        strings.TrimSpace(url),
		username:   "X Sentiment Bot",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		executor:   executor,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, content string) error {
	if n.url == "" {
		return domain.WrapError(domain.ErrMisconfigured, "discord notify", errors.New("DISCORD_WEBHOOK_URL is not set"))
	}
	for _, chunk := range SplitMessage(content, MessageLimit) {
		if err := n.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (n *WebhookNotifier) send(ctx context.Context, content string) error {
	call := func(ctx context.Context) error {
		return n.postJSON(ctx, map[string]string{"content": content, "username": n.username})
	}
	var err error
	if n.executor != nil {
		err = n.executor.Execute(ctx, "discord.webhook", call, classifyWebhookError)
	} else {
		err = call(ctx)
	}
	if err != nil && (classifyWebhookError(err).Retryable || resilience.IsCircuitOpen(err)) {
		return domain.WrapError(domain.ErrTemporary, "discord notify", err)
	}
	return err
}

func (n *WebhookNotifier) postJSON(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(msg)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func classifyWebhookError(err error) resilience.ErrorClassification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		retryable := statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
		return resilience.ErrorClassification{Retryable: retryable, RecordFailure: retryable}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

// SplitMessage cuts content into chunks of at most limit runes, preferring line breaks.
func SplitMessage(content string, limit int) []string {
	if utf8.RuneCountInString(content) <= limit {
		return []string{content}
	}
	var chunks []string
	runes := []rune(content)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
