package tools

import (
	"context"
	"fmt"

	"github.com/sammcj/localllm-mcp/types"
)

const (
	// ContextQueryToolName is the MCP name of the contextual query tool
	ContextQueryToolName = "query_local_llm_with_context"

	// ContextQueryErrorPrefix starts every failure string returned by query_local_llm_with_context
	ContextQueryErrorPrefix = "Error querying local LLM with context:"
)

// ContextQueryRequest holds the inputs of query_local_llm_with_context.
// Temperature and max tokens always come from the configuration.
type ContextQueryRequest struct {
	Prompt        string
	Context       string
	TaskType      string
	SystemMessage types.Optional[string]
}

// QueryLocalLLMWithContext sends a prompt together with supporting context.
// Failures are returned as text starting with ContextQueryErrorPrefix.
func (q *Querier) QueryLocalLLMWithContext(ctx context.Context, req ContextQueryRequest) string {
	text, err := q.QueryWithContext(ctx, req)
	if err != nil {
		return FormatContextQueryError(err)
	}
	return text
}

// QueryWithContext is QueryLocalLLMWithContext with the error returned instead of formatted
func (q *Querier) QueryWithContext(ctx context.Context, req ContextQueryRequest) (string, error) {
	systemMessage, ok := req.SystemMessage.Get()
	if !ok {
		systemMessage = SystemMessageFor(req.TaskType)
	}

	chatReq := types.ChatRequest{
		Model: q.cfg.Model,
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: systemMessage},
			{Role: types.RoleUser, Content: BuildContextPrompt(req.Context, req.Prompt)},
		},
		Temperature: q.cfg.Temperature,
		MaxTokens:   q.cfg.MaxTokens,
		Stream:      false,
	}

	q.logger.Debug().
		Str("tool", ContextQueryToolName).
		Str("task_type", req.TaskType).
		Int("prompt_len", len(req.Prompt)).
		Int("context_len", len(req.Context)).
		Msg("Querying local LLM with context")

	text, err := q.client.ChatCompletion(ctx, chatReq)
	if err != nil {
		q.logger.Warn().Err(err).Str("tool", ContextQueryToolName).Msg("Local LLM query failed")
		return "", err
	}
	return text, nil
}

// BuildContextPrompt combines context and prompt into the single user message
func BuildContextPrompt(contextText, prompt string) string {
	return "Context:\n" + contextText + "\n\nTask:\n" + prompt
}

// FormatContextQueryError renders err the way query_local_llm_with_context reports failures
func FormatContextQueryError(err error) string {
	return fmt.Sprintf("%s %v", ContextQueryErrorPrefix, err)
}
