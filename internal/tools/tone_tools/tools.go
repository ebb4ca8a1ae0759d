package tone_tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tone-task/tone-mcp/internal/logging"
	"github.com/tone-task/tone-mcp/internal/server"
	"github.com/tone-task/tone-mcp/internal/tone"
	"github.com/tone-task/tone-mcp/internal/tools/common"
)

// readFunc performs a query and renders its result, including failures, as text.
type readFunc func(ctx context.Context, c *tone.Client, method tone.Method, body map[string]any) string

// toolDescriptor declares one MCP tool. Tools with a read func use query
// mode; all others use mutation mode and answer with the sentinel.
type toolDescriptor struct {
	name        string
	description string
	method      tone.Method
	params      []param

	// fixed parameters sent with every call
	fixed map[string]any

	read readFunc
}

func (d toolDescriptor) isRead() bool {
	return d.read != nil
}

// toolTable lists every tool in registration order.
var toolTable = []toolDescriptor{
	// Read tools
	{
		name:        "get_myself",
		description: "自分自身のユーザー情報を取得します。自分のユーザーIDはこのツールで確認できます",
		method:      tone.MethodGetMySelf,
		read:        readMySelf,
	},
	{
		name:        "get_mytasks",
		description: "Get my own tasks.",
		method:      tone.MethodGetMyTasks,
		params:      []param{{"workspace_id", "workspace id. you can get it from get_workspaces tool.", kindID}},
		read:        readTasks,
	},
	{
		name:        "get_workspaces",
		description: "Get tone workspace. You can get workspace, teamspace, and list info. This tool provides necessary information for subsequent tasks when you specify list or teamspace names. Every workspace you belong to is listed, each separated by ---.",
		method:      tone.MethodGetWorkspaces,
		read:        readWorkspaces,
	},
	{
		name:        "get_tasks",
		description: "Get todo tasks by list id. this task contains other members tasks.",
		method:      tone.MethodGetTasks,
		params: []param{
			pWorkspace,
			pTeamspace,
			{"list_id", "list id. you can get it from get_workspaces tool.", kindID},
		},
		fixed: map[string]any{"order_by": "custom_position"},
		read:  readTasks,
	},
	{
		name:        "get_task",
		description: "Get a single task by id, including its sub-tasks.",
		method:      tone.MethodGetTask,
		params:      []param{pWorkspace, pTeamspace, pList, pTask},
		read:        readTask,
	},
	{
		name:        "get_users",
		description: "Toneのユーザー一覧を取得します。",
		method:      tone.MethodGetUsers,
		params:      []param{pWorkspace},
		read:        readUsers,
	},
	{
		name:        "get_task_templates",
		description: "Get task templates of a workspace. Use create_tasks_from_template to add their tasks to a list.",
		method:      tone.MethodGetTaskTemplates,
		params:      []param{pWorkspace},
		read:        readTaskTemplates,
	},

	// Write tools
	{
		name:        "create_task",
		description: "Create a task in tone.",
		method:      tone.MethodCreateTask,
		params: []param{
			pWorkspace, pTeamspace, pList,
			{"title", descTitle, kindID},
			{"description", descDescription, kindText},
			{"assign_user_ids", descAssignUserIDs, kindOptionalIDList},
		},
	},
	{
		name:        "create_sub_task",
		description: "Create a sub-task under an existing task in tone.",
		method:      tone.MethodCreateSubTask,
		params: []param{
			pWorkspace, pTeamspace, pList,
			{"parent_task_id", "parent task id. you can get it from get_tasks tool.", kindID},
			{"title", descTitle, kindID},
			{"description", descDescription, kindText},
			{"assign_user_ids", descAssignUserIDs, kindOptionalIDList},
		},
	},
	{
		name:        "create_list",
		description: "リストを作成します。",
		method:      tone.MethodCreateList,
		params: []param{
			{"workspace_id", "ワークスペースID。get_workspacesツールから取得できます。", kindID},
			{"teamspace_id", "チームスペースID。get_workspacesツールから取得できます。", kindID},
			{"name", "作成するリストの名前。", kindID},
		},
	},
	{
		name:        "update_task_title",
		description: "タスクのタイトルを更新します。",
		method:      tone.MethodUpdateTaskTitle,
		params:      []param{pWorkspace, pTeamspace, pList, pTask, {"title", descNewTitle, kindID}},
	},
	{
		name:        "update_task_description",
		description: "タスクの説明を更新します。",
		method:      tone.MethodUpdateTaskDescription,
		params:      []param{pWorkspace, pTeamspace, pList, pTask, {"description", descNewDescription, kindText}},
	},
	{
		name:        "update_task_status",
		description: "Update the status of a task in tone. you can update multiple tasks at once.",
		method:      tone.MethodBatchUpdateTaskStatus,
		params: []param{
			pWorkspace, pTeamspace, pList, pTaskIDs,
			{"status", `task status. you can choose from "TODO", "DOING", "DONE"`, kindStatus},
		},
	},
	{
		name:        "update_task_assignees",
		description: "Update the assignees of a task in tone. you can update multiple tasks at once.",
		method:      tone.MethodBatchUpdateTaskAssignees,
		params: []param{
			pWorkspace, pTeamspace, pList, pTaskIDs,
			{"assign_user_ids", descAssigneeUserIDs, kindOptionalIDList},
		},
	},
	{
		name:        "update_task_due_date",
		description: "Update the due date of a task in tone. you can update multiple tasks at once.",
		method:      tone.MethodBatchUpdateTaskDueDate,
		params: []param{
			pWorkspace, pTeamspace, pList, pTaskIDs,
			{"due_date", "due date in RFC 3339 format, e.g. 2024-07-01T00:00:00Z. an empty string clears the due date.", kindDueDate},
		},
	},
	{
		name:        "create_tasks_from_template",
		description: "Create tasks in a list from a task template. you can get templates from get_task_templates tool.",
		method:      tone.MethodCreateTasksFromTemplate,
		params: []param{
			pWorkspace, pTeamspace, pList,
			{"task_template_id", "task template id. you can get it from get_task_templates tool.", kindID},
		},
	},
}

// tool builds the mcp-go tool definition.
func (d toolDescriptor) tool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(d.description),
		mcp.WithReadOnlyHintAnnotation(d.isRead()),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	}
	for _, p := range d.params {
		opts = append(opts, p.schemaOption())
	}
	return mcp.NewTool(d.name, opts...)
}

// handler validates arguments, calls the API once and renders the result.
// Invalid arguments are reported as tool errors; API failures are rendered
// as text, the same way the API's own answers are.
func (d toolDescriptor) handler(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		body, err := parseParams(d.params, d.fixed, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client := sc.Client()
		if d.isRead() {
			return mcp.NewToolResultText(d.read(ctx, client, d.method, body)), nil
		}
		outcome := client.Mutate(ctx, d.method, body)
		if !outcome.OK() {
			logging.WithTool(slog.Default(), d.name).WarnContext(ctx, "tone mutation failed",
				logging.Method(d.method.Name()),
				logging.Workspace(common.GetWorkspaceFromArgs(request.GetArguments())))
		}
		return mcp.NewToolResultText(outcome.String()), nil
	}
}

// RegisterToneTools registers all tone tools with the MCP server. In
// read-only mode only the query tools are registered.
func RegisterToneTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if s == nil || sc == nil {
		return fmt.Errorf("mcp server and server context are required")
	}

	for _, d := range toolTable {
		if readOnly && !d.isRead() {
			continue
		}
		s.AddTool(d.tool(), common.InstrumentedToolHandlerWithService(
			d.name, d.method.Service(), d.method.Name(), sc, d.handler(sc),
		))
	}

	return nil
}

// ToolNames returns the names of the tools RegisterToneTools registers.
func ToolNames(readOnly bool) []string {
	names := make([]string, 0, len(toolTable))
	for _, d := range toolTable {
		if readOnly && !d.isRead() {
			continue
		}
		names = append(names, d.name)
	}
	return names
}
