package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"

	defaultTemperature = 0.3
	defaultMaxTokens   = 150
)

// CallObserver receives one signal per completion call.
type CallObserver interface {
	ObserveCompletion(operation, status string, duration time.Duration)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

// Client talks to the OpenAI-compatible Groq chat completions endpoint.
type Client struct {
	api       *openai.Client
	cfg       Config
	executor  *resilience.Executor
	observer  CallObserver
	operation string
}

func New(cfg Config, executor *resilience.Executor, observer CallObserver) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.SingleAttempt())
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:       openai.NewClientWithConfig(clientCfg),
		cfg:       cfg,
		executor:  executor,
		observer:  observer,
		operation: "complete",
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// Complete sends a single user-role prompt and returns the trimmed first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, c.operation, prompt, c.cfg.MaxTokens)
}

func (c *Client) complete(ctx context.Context, operation, prompt string, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", domain.WrapError(domain.ErrMisconfigured, "groq "+operation, errors.New("GROQ_API_KEY is not set"))
	}

	start := time.Now()
	text, err := resilience.Call(ctx, c.executor, "groq_"+operation, func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: c.cfg.Temperature,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errEmptyChoices
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}, classifyGroqError)
	c.observe(operation, err, time.Since(start))
	if err != nil {
		return "", wrapTemporaryIfNeeded("groq "+operation, describeAPIError(err))
	}
	return text, nil
}

func (c *Client) observe(operation string, err error, d time.Duration) {
	if c.observer == nil {
		return
	}
	status := "ok"
	switch {
	case err == nil:
	case resilience.IsCircuitOpen(err):
		status = "circuit_open"
	default:
		status = "error"
	}
	c.observer.ObserveCompletion(operation, status, d)
}

// describeAPIError keeps the upstream status and message in the error text.
func describeAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("groq api error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("groq request error %d: %w", reqErr.HTTPStatusCode, err)
	}
	return err
}
