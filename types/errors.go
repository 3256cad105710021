// types/errors.go
package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLLMResponse indicates a failed or invalid LLM response
	ErrLLMResponse = errors.New("invalid LLM response")

	// ErrNoChoices indicates the completion response carried no choices
	ErrNoChoices = errors.New("no choices in completion response")

	// ErrToolExecution indicates a tool execution failure
	ErrToolExecution = errors.New("tool execution failed")

	// ErrInvalidArguments indicates tool arguments failed binding or validation
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// ConfigError wraps configuration-related errors
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		if e.Err != nil {
			return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Err)
		}
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("configuration error in %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Err}
}

// LLMError wraps errors from the inference server round trip
type LLMError struct {
	Operation  string
	Message    string
	StatusCode int
	Err        error
}

func (e *LLMError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM error during %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("LLM error during %s: %s", e.Operation, e.Message)
}

func (e *LLMError) Unwrap() []error {
	return []error{ErrLLMResponse, e.Err}
}

// ToolError wraps tool-related errors
type ToolError struct {
	Tool    string
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tool error in %s: %s: %v", e.Tool, e.Message, e.Err)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

func (e *ToolError) Unwrap() []error {
	return []error{ErrToolExecution, e.Err}
}
