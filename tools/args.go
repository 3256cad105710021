package tools

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sammcj/localllm-mcp/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// QueryArgs are the MCP arguments of query_local_llm
type QueryArgs struct {
	Prompt        string   `json:"prompt" validate:"required" jsonschema_description:"The user prompt to send to the local LLM"`
	SystemMessage *string  `json:"system_message,omitempty" jsonschema_description:"System message to set context/behavior (optional)"`
	Temperature   *float64 `json:"temperature,omitempty" jsonschema_description:"Override default temperature (optional)"`
	MaxTokens     *int     `json:"max_tokens,omitempty" jsonschema_description:"Override default max tokens (optional)"`
}

// Request validates the arguments and converts them to a QueryRequest
func (a QueryArgs) Request() (QueryRequest, error) {
	if err := validateArgs(a); err != nil {
		return QueryRequest{}, &types.ToolError{Tool: QueryToolName, Message: "invalid arguments", Err: err}
	}
	return QueryRequest{
		Prompt:        a.Prompt,
		SystemMessage: types.FromPtr(a.SystemMessage),
		Temperature:   types.FromPtr(a.Temperature),
		MaxTokens:     types.FromPtr(a.MaxTokens),
	}, nil
}

// ContextQueryArgs are the MCP arguments of query_local_llm_with_context.
// Prompt and context must be present but may be empty.
type ContextQueryArgs struct {
	Prompt        *string `json:"prompt" validate:"required" jsonschema_description:"The main task/question for the local LLM"`
	Context       *string `json:"context" validate:"required" jsonschema_description:"Additional context (e.g. code snippet, file content)"`
	TaskType      string  `json:"task_type,omitempty" jsonschema_description:"Type of task"`
	SystemMessage *string `json:"system_message,omitempty" jsonschema_description:"Optional custom system message, replaces the task type message"`
}

// Request validates the arguments and converts them to a ContextQueryRequest
func (a ContextQueryArgs) Request() (ContextQueryRequest, error) {
	if err := validateArgs(a); err != nil {
		return ContextQueryRequest{}, &types.ToolError{Tool: ContextQueryToolName, Message: "invalid arguments", Err: err}
	}
	taskType := a.TaskType
	if taskType == "" {
		taskType = string(TaskGeneral)
	}
	return ContextQueryRequest{
		Prompt:        *a.Prompt,
		Context:       *a.Context,
		TaskType:      taskType,
		SystemMessage: types.FromPtr(a.SystemMessage),
	}, nil
}

// validateArgs checks struct tags and reports the first failing field by its JSON name
func validateArgs(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: %s is required", types.ErrInvalidArguments, fe.Field())
		}
		return fmt.Errorf("%w: %s fails %q", types.ErrInvalidArguments, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", types.ErrInvalidArguments, err)
}
