// Package llm provides a minimal client for OpenAI-compatible chat
// completion APIs.
//
// The client speaks the /v1/chat/completions wire format used by OpenAI and
// the many providers that mimic it, so pointing doc-agent at a different
// backend only requires changing the base URL and model name.
//
// Key types:
//   - [Chatter] - the interface consumed by the llm step
//   - [Client] - HTTP implementation of Chatter
//   - [APIError] - non-2xx responses with status and body excerpt
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoAPIKey indicates a chat request was attempted without an API key.
var ErrNoAPIKey = errors.New("llm: no API key configured")

// ChatRequest is a single-turn chat completion request.
type ChatRequest struct {
	// Model overrides the client's default model when non-empty.
	Model string

	// System is the optional system message.
	System string

	// Prompt is the user message.
	Prompt string
}

// Usage reports token accounting from the provider, when available.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the assistant's reply to a [ChatRequest].
type ChatResponse struct {
	// Content is the assistant message text.
	Content string

	// Model is the model that produced the response.
	Model string

	// Usage is the provider token accounting, zero when not reported.
	Usage Usage
}

// Chatter is the chat completion interface consumed by the llm step.
type Chatter interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Config holds the settings for a [Client].
type Config struct {
	// BaseURL is the provider base URL, e.g. "https://api.openai.com".
	BaseURL string

	// APIKey authenticates requests via a Bearer token.
	APIKey string

	// DefaultModel is used when a request does not name a model.
	DefaultModel string

	// EndpointPath is the chat completions path.
	// Defaults to "/v1/chat/completions".
	EndpointPath string

	// Timeout is the HTTP client timeout. Defaults to 60s if zero.
	Timeout time.Duration
}

// Client is an HTTP [Chatter] for OpenAI-compatible APIs.
//
// Create instances with [NewClient]; the zero value is not usable.
type Client struct {
	cfg    Config
	hc     *http.Client
	logger *zap.Logger
}

// NewClient creates a [Client] from cfg, applying defaults for the
// endpoint path and timeout. A nil logger is replaced with zap.NewNop().
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/v1/chat/completions"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		hc:     &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// APIError is a non-2xx response from the provider.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Body is an excerpt of the response body.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm: API returned status %d: %s", e.Status, e.Body)
}

// wireMessage is a chat message in the OpenAI wire format.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
}

type wireResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Chat sends a single-turn chat completion request.
//
// Returns [ErrNoAPIKey] without touching the network when no key is
// configured, and [*APIError] for non-2xx provider responses.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	model := req.Model
	if model == "" {
		model = c.cfg.DefaultModel
	}

	var messages []wireMessage
	if req.System != "" {
		messages = append(messages, wireMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, wireMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(wireRequest{Model: model, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("llm: failed to encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + c.cfg.EndpointPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("llm: sending chat request",
		zap.String("model", model),
		zap.String("url", url))

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("llm: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: excerpt(data)}
	}

	var wire wireResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("llm: failed to decode response: %w", err)
	}
	if len(wire.Choices) == 0 {
		return nil, errors.New("llm: response contained no choices")
	}

	c.logger.Debug("llm: chat request complete",
		zap.String("model", wire.Model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("total_tokens", wire.Usage.TotalTokens))

	return &ChatResponse{
		Content: wire.Choices[0].Message.Content,
		Model:   wire.Model,
		Usage:   wire.Usage,
	}, nil
}

func excerpt(data []byte) string {
	const max = 256
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
