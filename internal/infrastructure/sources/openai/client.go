// Package openai implements the generative client against an OpenAI-compatible
// chat-completion endpoint.
package openai

import (
	"context"
	"time"

	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PharmaLens/internal/infrastructure/sources/httpx"
	"github.com/turtacn/PharmaLens/internal/intelligence/dossier_gpt"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// Client is a dossier_gpt.GenerativeClient speaking the chat-completion
// protocol.
type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
	model   string

	temperature float64
	maxTokens   int

	logger  logging.Logger
	metrics *appmetrics.AppMetrics
}

// NewClient builds the generative client.  The API key is validated at config
// load time; an empty key here would make every call fail upstream.
func NewClient(cfg config.GenerativeConfig, log logging.Logger, metrics *appmetrics.AppMetrics) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		http: httpx.New(httpx.Options{
			Timeout:   cfg.Timeout,
			BaseDelay: 500 * time.Millisecond,
			Source:    "openai",
			Logger:    log,
			Metrics:   metrics,
		}),
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      log.Named("openai"),
		metrics:     metrics,
	}
}

var _ dossier_gpt.GenerativeClient = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate runs one chat completion and returns the raw assistant text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	started := time.Now()
	var resp chatResponse
	err := c.http.PostJSON(ctx, c.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + c.apiKey}, req, &resp)
	if c.metrics != nil {
		appmetrics.RecordLLMCall(c.metrics, c.model, err == nil, time.Since(started),
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrCodeGenerativeUpstream,
			"chat completion returned no choices")
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		c.logger.Warn("completion truncated by token limit",
			logging.String("model", c.model),
			logging.Int("max_tokens", c.maxTokens))
	}
	return choice.Message.Content, nil
}
