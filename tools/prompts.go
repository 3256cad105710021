package tools

import "sort"

// TaskType selects a predefined system message for contextual queries
type TaskType string

const (
	TaskCodeReview    TaskType = "code_review"
	TaskDocumentation TaskType = "documentation"
	TaskRefactor      TaskType = "refactor"
	TaskGeneral       TaskType = "general"
)

// DefaultSystemMessage is used by query_local_llm when no system message is supplied
const DefaultSystemMessage = "You are a helpful assistant. Provide concise, accurate responses."

// systemMessages is read-only after package initialisation
var systemMessages = map[TaskType]string{
	TaskCodeReview:    "You are a code reviewer. Provide constructive feedback on code quality, potential issues, and improvements.",
	TaskDocumentation: "You are a technical writer. Create clear, concise documentation for the provided code.",
	TaskRefactor:      "You are a code refactoring expert. Suggest improvements while maintaining functionality.",
	TaskGeneral:       DefaultSystemMessage,
}

// SystemMessageFor returns the system message for a task type.
// Unknown task types get the general message.
func SystemMessageFor(taskType string) string {
	if msg, ok := systemMessages[TaskType(taskType)]; ok {
		return msg
	}
	return systemMessages[TaskGeneral]
}

// TaskTypes lists the known task types in sorted order
func TaskTypes() []string {
	names := make([]string, 0, len(systemMessages))
	for t := range systemMessages {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}
