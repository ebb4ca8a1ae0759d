package tone_tools

import (
	"context"

	"github.com/tone-task/tone-mcp/internal/format"
	"github.com/tone-task/tone-mcp/internal/tone"
)

// Messages returned when a query fails or the expected key is missing.
const (
	msgMySelfNotFound     = "ユーザー情報を取得できませんでした。"
	msgTasksNotFound      = "タスクを取得できませんでした。"
	msgTasksEmpty         = "タスクが見つかりませんでした。"
	msgTaskNotFound       = "タスクが見つかりませんでした。"
	msgWorkspacesNotFound = "ワークスペースの取得に失敗したか、ワークスペースが見つかりませんでした。"
	msgWorkspacesEmpty    = "No active workspaces found."
	msgUsersNotFound      = "ユーザー情報の取得に失敗したか、ユーザーが見つかりませんでした。"
	msgUsersEmpty         = "ユーザーが見つかりませんでした。"
	msgTemplatesNotFound  = "タスクテンプレートを取得できませんでした。"
	msgTemplatesEmpty     = "タスクテンプレートが見つかりませんでした。"
)

func readMySelf(ctx context.Context, c *tone.Client, method tone.Method, body map[string]any) string {
	var resp tone.MySelfResponse
	if err := c.Query(ctx, method, body, &resp); err != nil || resp.User == nil {
		return msgMySelfNotFound
	}
	return format.FormatMySelf(*resp.User)
}

// readTasks serves both GetMyTasks and GetTasks.
func readTasks(ctx context.Context, c *tone.Client, method tone.Method, body map[string]any) string {
	var resp tone.TasksResponse
	if err := c.Query(ctx, method, body, &resp); err != nil {
		return err.Error()
	}
	if resp.Tasks == nil {
		return msgTasksNotFound
	}
	if len(*resp.Tasks) == 0 {
		return msgTasksEmpty
	}
	return format.Each(*resp.Tasks, format.FormatTask)
}

func readTask(ctx context.Context, c *tone.Client, method tone.Method, body map[string]any) string {
	var resp tone.TaskResponse
	if err := c.Query(ctx, method, body, &resp); err != nil {
		return err.Error()
	}
	if resp.Task == nil {
		return msgTaskNotFound
	}
	return format.FormatTask(*resp.Task)
}

func readWorkspaces(ctx context.Context, c *tone.Client, method tone.Method, body map[string]any) string {
	var resp tone.WorkspacesResponse
	if err := c.Query(ctx, method, body, &resp); err != nil {
		return msgWorkspacesNotFound + err.Error()
	}
	if resp.Workspaces == nil {
		return msgWorkspacesNotFound
	}
	if len(*resp.Workspaces) == 0 {
		return msgWorkspacesEmpty
	}
	return format.Each(*resp.Workspaces, format.FormatWorkspace)
}

func readUsers(ctx context.Context, c *tone.Client, method tone.Method, body map[string]any) string {
	var resp tone.UsersResponse
	if err := c.Query(ctx, method, body, &resp); err != nil || resp.Users == nil {
		return msgUsersNotFound
	}
	if len(*resp.Users) == 0 {
		return msgUsersEmpty
	}
	return format.Each(*resp.Users, format.FormatUser)
}

func readTaskTemplates(ctx context.Context, c *tone.Client, method tone.Method, body map[string]any) string {
	var resp tone.TaskTemplatesResponse
	if err := c.Query(ctx, method, body, &resp); err != nil {
		return err.Error()
	}
	if resp.TaskTemplates == nil {
		return msgTemplatesNotFound
	}
	if len(*resp.TaskTemplates) == 0 {
		return msgTemplatesEmpty
	}
	return format.Each(*resp.TaskTemplates, format.FormatTemplate)
}
