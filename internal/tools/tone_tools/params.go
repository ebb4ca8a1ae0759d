package tone_tools

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tone-task/tone-mcp/internal/tone"
	"github.com/tone-task/tone-mcp/internal/tools/batch"
	"github.com/tone-task/tone-mcp/internal/tools/common"
)

// paramKind decides both the JSON schema of a parameter and how its value
// is validated before the API call.
type paramKind int

const (
	// kindID is a non-empty string (IDs, titles, names).
	kindID paramKind = iota
	// kindText is a string that may be empty (descriptions).
	kindText
	// kindIDList is a non-empty array of IDs; a single string is accepted.
	kindIDList
	// kindOptionalIDList is an array of IDs that may be empty.
	kindOptionalIDList
	// kindStatus is one of tone.ValidStatuses.
	kindStatus
	// kindDueDate is an RFC 3339 timestamp, or empty to clear the date.
	kindDueDate
)

type param struct {
	name        string
	description string
	kind        paramKind
}

// Shared parameter descriptions.
const (
	descWorkspaceID     = "workspace id. you can get it from get_workspaces tool."
	descTeamspaceID     = "teamspace id. you can get it from get_workspaces tool."
	descListID          = "list id. you can get it from get_workspaces tool or task detail."
	descTaskID          = "task id. you can get it from get_tasks tool."
	descTaskIDs         = "task id list"
	descTitle           = "task title. You can use up to 50 characters, but it's better to keep it within 20 characters."
	descNewTitle        = "new task title. You can use up to 50 characters, but it's better to keep it within 20 characters."
	descDescription     = "task description. you can use markdown."
	descNewDescription  = "new task description. you can use markdown."
	descAssignUserIDs   = "assignee id list. you can get assignee id from get_users tool. by default, you should set it yourself."
	descAssigneeUserIDs = "assignee id list. you can get assignee id from get_users tool."
)

var (
	pWorkspace = param{"workspace_id", descWorkspaceID, kindID}
	pTeamspace = param{"teamspace_id", descTeamspaceID, kindID}
	pList      = param{"list_id", descListID, kindID}
	pTask      = param{"task_id", descTaskID, kindID}
	pTaskIDs   = param{"task_ids", descTaskIDs, kindIDList}
)

// schemaOption renders p as an mcp-go tool option.
func (p param) schemaOption() mcp.ToolOption {
	switch p.kind {
	case kindIDList:
		return mcp.WithArray(p.name, mcp.Required(), mcp.Description(p.description), mcp.WithStringItems())
	case kindOptionalIDList:
		// omitted is sent as []
		return mcp.WithArray(p.name, mcp.Description(p.description), mcp.WithStringItems())
	case kindStatus:
		return mcp.WithString(p.name, mcp.Required(), mcp.Description(p.description), mcp.Enum(tone.ValidStatuses...))
	default:
		return mcp.WithString(p.name, mcp.Required(), mcp.Description(p.description))
	}
}

// parse validates the argument for p and returns the value to send.
func (p param) parse(args map[string]interface{}) (any, error) {
	switch p.kind {
	case kindID:
		return common.RequiredString(args, p.name)
	case kindText:
		return common.StringArg(args, p.name)
	case kindIDList:
		return batch.ParseStringOrArray(args[p.name], p.name)
	case kindOptionalIDList:
		return batch.ParseStringArray(args[p.name], p.name)
	case kindStatus:
		status, err := common.RequiredString(args, p.name)
		if err != nil {
			return nil, err
		}
		if !tone.IsValidStatus(status) {
			return nil, fmt.Errorf("%s must be one of %v, got %q", p.name, tone.ValidStatuses, status)
		}
		return status, nil
	case kindDueDate:
		due, err := common.StringArg(args, p.name)
		if err != nil {
			return nil, err
		}
		if due == "" {
			return due, nil
		}
		if _, err := time.Parse(time.RFC3339, due); err != nil {
			return nil, fmt.Errorf("%s must be an RFC 3339 timestamp such as 2024-07-01T00:00:00Z: %w", p.name, err)
		}
		return due, nil
	default:
		return nil, fmt.Errorf("unsupported parameter kind for %s", p.name)
	}
}

// parseParams validates every declared parameter and builds the request body.
func parseParams(params []param, fixed map[string]any, args map[string]interface{}) (map[string]any, error) {
	body := make(map[string]any, len(params)+len(fixed))
	for _, p := range params {
		v, err := p.parse(args)
		if err != nil {
			return nil, err
		}
		body[p.name] = v
	}
	for k, v := range fixed {
		body[k] = v
	}
	return body, nil
}
