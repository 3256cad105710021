package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaDoc struct {
	Type       string                    `json:"type"`
	Required   []string                  `json:"required"`
	Properties map[string]map[string]any `json:"properties"`
}

func decodeSchema(t *testing.T, raw json.RawMessage) schemaDoc {
	t.Helper()
	var doc schemaDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestQueryToolSpec(t *testing.T) {
	tool := QueryToolSpec()
	assert.Equal(t, "query_local_llm", tool.Name)
	assert.NotEmpty(t, tool.Description)

	doc := decodeSchema(t, tool.RawInputSchema)
	assert.Equal(t, "object", doc.Type)
	assert.Equal(t, []string{"prompt"}, doc.Required)
	assert.Equal(t, "string", doc.Properties["prompt"]["type"])
	assert.Equal(t, "string", doc.Properties["system_message"]["type"])
	assert.Equal(t, DefaultSystemMessage, doc.Properties["system_message"]["default"])
	assert.Equal(t, "number", doc.Properties["temperature"]["type"])
	assert.Equal(t, "integer", doc.Properties["max_tokens"]["type"])

	// the tool must marshal cleanly for tools/list
	_, err := json.Marshal(tool)
	require.NoError(t, err)
}

func TestContextQueryToolSpec(t *testing.T) {
	tool := ContextQueryToolSpec()
	assert.Equal(t, "query_local_llm_with_context", tool.Name)

	doc := decodeSchema(t, tool.RawInputSchema)
	assert.ElementsMatch(t, []string{"prompt", "context"}, doc.Required)
	assert.Equal(t, "general", doc.Properties["task_type"]["default"])
	assert.Equal(t, "Type of task: code_review, documentation, general, refactor. Unknown values use general.",
		doc.Properties["task_type"]["description"])
	assert.NotContains(t, doc.Properties["task_type"], "enum", "unknown task types fall back to general")
	assert.NotContains(t, doc.Properties, "temperature")
	assert.NotContains(t, doc.Properties, "max_tokens")
	require.NotNil(t, tool.Annotations.ReadOnlyHint)
	assert.True(t, *tool.Annotations.ReadOnlyHint)
}

func TestInputSchemaUnknownDefault(t *testing.T) {
	_, err := inputSchema(&QueryArgs{}, map[string]property{"missing": {Default: 1}})
	assert.Error(t, err)
}
