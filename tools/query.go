package tools

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sammcj/localllm-mcp/config"
	"github.com/sammcj/localllm-mcp/llm"
	"github.com/sammcj/localllm-mcp/types"
)

const (
	// QueryToolName is the MCP name of the simple query tool
	QueryToolName = "query_local_llm"

	// QueryErrorPrefix starts every failure string returned by query_local_llm
	QueryErrorPrefix = "Error querying local LLM:"
)

// QueryRequest holds the inputs of query_local_llm
type QueryRequest struct {
	Prompt        string `validate:"required"`
	SystemMessage types.Optional[string]
	Temperature   types.Optional[float64]
	MaxTokens     types.Optional[int]
}

// Querier forwards tool calls to the local LLM. It holds no per-call state and
// is safe for concurrent use.
type Querier struct {
	client llm.Completer
	cfg    config.LLMConfig
	logger zerolog.Logger
}

// NewQuerier creates a Querier sending requests through client with the defaults in cfg
func NewQuerier(client llm.Completer, cfg config.LLMConfig, logger zerolog.Logger) *Querier {
	return &Querier{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// QueryLocalLLM sends a prompt with an optional system message and sampling
// overrides. Failures are returned as text starting with QueryErrorPrefix.
func (q *Querier) QueryLocalLLM(ctx context.Context, req QueryRequest) string {
	text, err := q.Query(ctx, req)
	if err != nil {
		return FormatQueryError(err)
	}
	return text
}

// Query is QueryLocalLLM with the error returned instead of formatted
func (q *Querier) Query(ctx context.Context, req QueryRequest) (string, error) {
	if err := validateArgs(req); err != nil {
		return "", &types.ToolError{Tool: QueryToolName, Message: "invalid arguments", Err: err}
	}

	chatReq := types.ChatRequest{
		Model: q.cfg.Model,
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: req.SystemMessage.OrElse(DefaultSystemMessage)},
			{Role: types.RoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature.OrElse(q.cfg.Temperature),
		MaxTokens:   req.MaxTokens.OrElse(q.cfg.MaxTokens),
		Stream:      false,
	}

	q.logger.Debug().
		Str("tool", QueryToolName).
		Int("prompt_len", len(req.Prompt)).
		Bool("temperature_override", req.Temperature.IsSet()).
		Bool("max_tokens_override", req.MaxTokens.IsSet()).
		Msg("Querying local LLM")

	text, err := q.client.ChatCompletion(ctx, chatReq)
	if err != nil {
		q.logger.Warn().Err(err).Str("tool", QueryToolName).Msg("Local LLM query failed")
		return "", err
	}
	return text, nil
}

// FormatQueryError renders err the way query_local_llm reports failures
func FormatQueryError(err error) string {
	return fmt.Sprintf("%s %v", QueryErrorPrefix, err)
}
