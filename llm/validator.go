package llm

import (
	"github.com/sammcj/localllm-mcp/types"
)

// ValidateResponse checks that a decoded completion can yield a first choice
func ValidateResponse(resp *types.ChatResponse) error {
	if resp == nil {
		return &types.LLMError{Operation: opChatCompletion, Message: "response is nil"}
	}

	if len(resp.Choices) == 0 {
		return &types.LLMError{Operation: opChatCompletion, Message: "empty response", Err: types.ErrNoChoices}
	}

	return nil
}
