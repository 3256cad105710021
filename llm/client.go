package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sammcj/localllm-mcp/metrics"
	"github.com/sammcj/localllm-mcp/types"
)

const (
	chatCompletionsPath = "/chat/completions"
	opChatCompletion    = "chat_completion"

	// maxResponseBytes caps how much of an upstream body is read
	maxResponseBytes = 4 << 20
	// maxErrorBodyBytes caps how much of an error body ends up in the error message
	maxErrorBodyBytes = 512
)

// Completer sends a chat completion and returns the text of the first choice
type Completer interface {
	ChatCompletion(ctx context.Context, req types.ChatRequest) (string, error)
}

// Client manages communication with an OpenAI-compatible chat completion API
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

var _ Completer = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records upstream response statuses
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client for the server at baseURL, e.g. http://localhost:1234/v1
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + chatCompletionsPath,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the full chat completions URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close releases idle upstream connections
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// ChatCompletion sends req and returns the content of the first choice
func (c *Client) ChatCompletion(ctx context.Context, req types.ChatRequest) (string, error) {
	resp, err := c.sendRequest(ctx, req)
	if err != nil {
		return "", err
	}

	if err := ValidateResponse(resp); err != nil {
		return "", err
	}

	return resp.Choices[0].Text(), nil
}

// sendRequest posts the request and decodes the response body
func (c *Client) sendRequest(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, &types.LLMError{Operation: opChatCompletion, Message: "failed to marshal request", Err: err}
	}

	c.logger.Debug().
		Str("endpoint", c.endpoint).
		Str("model", req.Model).
		Int("messages", len(req.Messages)).
		Float64("temperature", req.Temperature).
		Int("max_tokens", req.MaxTokens).
		Msg("Sending chat completion request")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &types.LLMError{Operation: opChatCompletion, Message: "failed to create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveUpstream(0)
		return nil, &types.LLMError{Operation: opChatCompletion, Message: "failed to send request", Err: err}
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &types.LLMError{
			Operation:  opChatCompletion,
			Message:    "failed to read response body",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.LLMError{
			Operation:  opChatCompletion,
			Message:    fmt.Sprintf("unexpected status code: %d, body: %s", resp.StatusCode, truncate(body, maxErrorBodyBytes)),
			StatusCode: resp.StatusCode,
		}
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("Received chat completion response")

	var chatResp types.ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &types.LLMError{
			Operation:  opChatCompletion,
			Message:    "failed to decode response",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	return &chatResp, nil
}

func truncate(body []byte, n int) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
