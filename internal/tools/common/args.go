package common

import (
	"fmt"

	"github.com/tone-task/tone-mcp/internal/tools/batch"
)

// resourceArgs are the single-ID arguments that identify what a tool touches.
var resourceArgs = []string{"task_id", "parent_task_id", "task_template_id"}

// GetWorkspaceFromArgs returns the workspace_id argument, or "" when the
// tool is not workspace scoped.
func GetWorkspaceFromArgs(args map[string]interface{}) string {
	if ws, ok := args["workspace_id"].(string); ok {
		return ws
	}
	return ""
}

// GetResourceIDsFromArgs collects task and template IDs from the request
// arguments for audit records. Malformed values are skipped; validation is
// the handler's job.
func GetResourceIDsFromArgs(args map[string]interface{}) []string {
	var ids []string
	for _, name := range resourceArgs {
		if id, ok := args[name].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	if raw, ok := args["task_ids"]; ok {
		if taskIDs, err := batch.ParseStringOrArray(raw, "task_ids"); err == nil {
			ids = append(ids, taskIDs...)
		}
	}
	return ids
}

// RequiredString returns a string argument that must be present and non-empty.
func RequiredString(args map[string]interface{}, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", fmt.Errorf("%s is required", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	if s == "" {
		return "", fmt.Errorf("%s cannot be empty", name)
	}
	return s, nil
}

// StringArg returns a string argument that must be present but may be empty.
func StringArg(args map[string]interface{}, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", fmt.Errorf("%s is required", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return s, nil
}
