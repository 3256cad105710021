package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	queryDescription = "Query the local LLM for simple, well-defined subtasks that have already been broken down. " +
		"Try this tool first for simple code generation to save costs. " +
		"Use it for generating code snippets, answering specific questions or performing isolated operations " +
		"that do not need complex reasoning or coordination."

	contextQueryDescription = "Query the local LLM for simple subtasks that need additional context. " +
		"Try this tool first for simple code generation with context to save costs. " +
		"Use it for isolated tasks such as code reviews, documentation generation or refactoring specific code sections " +
		"that have already been broken down into discrete steps. Not suitable for multi-step workflows."
)

// QueryToolSpec returns the MCP tool definition for query_local_llm
func QueryToolSpec() mcp.Tool {
	tool := mcp.NewToolWithRawSchema(QueryToolName, queryDescription, mustInputSchema(&QueryArgs{}, map[string]property{
		"system_message": {Default: DefaultSystemMessage},
	}))
	tool.Annotations = annotations("Query local LLM")
	return tool
}

// ContextQueryToolSpec returns the MCP tool definition for query_local_llm_with_context
func ContextQueryToolSpec() mcp.Tool {
	taskType := property{
		Default:     string(TaskGeneral),
		Description: fmt.Sprintf("Type of task: %s. Unknown values use %s.", strings.Join(TaskTypes(), ", "), TaskGeneral),
	}
	tool := mcp.NewToolWithRawSchema(ContextQueryToolName, contextQueryDescription, mustInputSchema(&ContextQueryArgs{}, map[string]property{
		"task_type": taskType,
	}))
	tool.Annotations = annotations("Query local LLM with context")
	return tool
}

func annotations(title string) mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           title,
		ReadOnlyHint:    mcp.ToBoolPtr(true),
		DestructiveHint: mcp.ToBoolPtr(false),
		IdempotentHint:  mcp.ToBoolPtr(false),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}
}

// property overrides reflected values of one schema property
type property struct {
	Default     any
	Description string
}

// inputSchema reflects an argument struct into an inline JSON schema
func inputSchema(args any, props map[string]property) (json.RawMessage, error) {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		Anonymous:                 true,
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(args)
	schema.Version = ""

	for name, override := range props {
		prop, ok := schema.Properties.Get(name)
		if !ok {
			return nil, fmt.Errorf("schema has no property %q", name)
		}
		if override.Default != nil {
			prop.Default = override.Default
		}
		if override.Description != "" {
			prop.Description = override.Description
		}
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input schema: %w", err)
	}
	return raw, nil
}

func mustInputSchema(args any, props map[string]property) json.RawMessage {
	raw, err := inputSchema(args, props)
	if err != nil {
		panic(err)
	}
	return raw
}
