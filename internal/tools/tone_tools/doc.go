// Package tone_tools provides MCP tools for the tone task-management API.
//
// Every tool is described by an entry in a static table (name, description,
// parameters, RPC method). RegisterToneTools turns the table into mcp-go
// tools, validates arguments, performs exactly one API call per invocation
// and renders the answer as text.
//
// # Available Tools
//
// Read tools (query mode, always registered):
//   - get_myself: the calling user
//   - get_mytasks: tasks assigned to the calling user
//   - get_workspaces: workspaces with their teamspace and list tree
//   - get_tasks: tasks of a list
//   - get_task: a single task with its sub-tasks
//   - get_users: workspace members
//   - get_task_templates: task templates of a workspace
//
// Write tools (mutation mode, omitted in read-only mode):
//   - create_task, create_sub_task, create_list
//   - update_task_title, update_task_description
//   - update_task_status, update_task_assignees, update_task_due_date
//   - create_tasks_from_template
//
// Write tools answer with "Success" or "Failed" only. The batch tools send
// every task ID in one request; partial failures are not reported.
package tone_tools
