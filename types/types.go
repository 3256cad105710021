// types/types.go
package types

// Message roles used when building a conversation
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message represents a message in the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of an OpenAI-compatible chat completion request.
// None of the fields are omitted: max_tokens of -1 and stream=false are sent as-is.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

// ChatResponse is the subset of a chat completion response the server reads
type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// Choice is a single completion choice
type Choice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// Text returns the message content of the choice, or "" when the server sent null
func (c Choice) Text() string {
	if c.Message.Content == nil {
		return ""
	}
	return *c.Message.Content
}
