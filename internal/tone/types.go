package tone

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Task statuses accepted by the tone API.
const (
	StatusTodo  = "TODO"
	StatusDoing = "DOING"
	StatusDone  = "DONE"
)

// ValidStatuses lists the task statuses in workflow order.
var ValidStatuses = []string{StatusTodo, StatusDoing, StatusDone}

// IsValidStatus reports whether s is one of the task statuses the API accepts.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Text is a scalar entity field. The API is loose about scalar types, so a
// number or boolean decodes to its JSON text and an object or array decodes
// to the empty string, which the formatter renders as a placeholder. A
// single oddly typed field never fails the surrounding response.
type Text string

// UnmarshalJSON accepts any JSON value.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[', 'n':
		*t = ""
	default:
		// numbers, true and false
		*t = Text(data)
	}
	return nil
}

// String returns t as a plain string.
func (t Text) String() string {
	return string(t)
}

// Workspace is a top-level container grouping teamspaces and lists
type Workspace struct {
	ID                     Text             `json:"id"`
	UserDefinedWorkspaceID Text             `json:"userDefinedWorkspaceId"`
	Profile                WorkspaceProfile `json:"profile"`

	// Raw keeps the complete object as received, including the nested
	// teamspace and list tree that is not modelled here.
	Raw json.RawMessage `json:"-"`
}

// WorkspaceProfile holds the display attributes of a workspace
type WorkspaceProfile struct {
	Name  Text `json:"name"`
	Emoji Text `json:"emoji"`
}

// UnmarshalJSON decodes the known fields and retains the raw object.
func (w *Workspace) UnmarshalJSON(data []byte) error {
	type plain Workspace
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*w = Workspace(p)
	w.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Assignee is a user assigned to a task
type Assignee struct {
	ID          Text `json:"id"`
	DisplayName Text `json:"displayName"`
}

// Tag is a label attached to a task. The API sends tags either as bare
// strings or as objects; both decode into a Tag.
type Tag struct {
	ID   Text `json:"id,omitempty"`
	Name Text `json:"name"`
}

// UnmarshalJSON accepts "name" or {"id": "...", "name": "..."}. Bare
// numbers and booleans are taken as the name.
func (t *Tag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var name Text
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return fmt.Errorf("tag must be a string or an object: %w", err)
		}
		*t = Tag{Name: name}
		return nil
	}

	type plain Tag
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("tag must be a string or an object: %w", err)
	}
	*t = Tag(p)
	return nil
}

// SubTask is a task nested one level below its parent
type SubTask struct {
	ID          Text       `json:"id"`
	Title       Text       `json:"title"`
	Status      Text       `json:"status"`
	Description Text       `json:"description"`
	DueDate     Text       `json:"dueDate"`
	Assignees   []Assignee `json:"assignees"`
	Tags        []Tag      `json:"tags"`
}

// Task represents a tone task
type Task struct {
	ID          Text       `json:"id"`
	Title       Text       `json:"title"`
	Status      Text       `json:"status"` // "TODO", "DOING" or "DONE"
	Description Text       `json:"description"`
	DueDate     Text       `json:"dueDate"` // ISO-8601, empty when unset
	ListID      Text       `json:"listId"`
	ListName    Text       `json:"listName"`
	Assignees   []Assignee `json:"assignees"`
	Tags        []Tag      `json:"tags"`
	SubTasks    []SubTask  `json:"subTasks"`
}

// User represents a tone user
type User struct {
	ID          Text `json:"id"`
	DisplayName Text `json:"displayName"`
	Email       Text `json:"email"`
	CreatedAt   Text `json:"createdAt"`
	UpdatedAt   Text `json:"updatedAt"`
	IconURL     Text `json:"iconUrl"`
	Description Text `json:"description"`
	Type        Text `json:"type"`
}

// TemplateTask is one predefined task inside a task template
type TemplateTask struct {
	Title       Text `json:"title"`
	Description Text `json:"description"`
}

// TaskTemplate is a named bundle of predefined tasks that can be
// instantiated into a list
type TaskTemplate struct {
	ID          Text           `json:"id"`
	Title       Text           `json:"title"`
	Description Text           `json:"description"`
	CreatedAt   Text           `json:"createdAt"`
	UpdatedAt   Text           `json:"updatedAt"`
	Tasks       []TemplateTask `json:"tasks"`
}

// Response envelopes. A nil field means the expected top-level key was
// absent (or null) in the response body.

// MySelfResponse is the body of UserService/GetMySelf
type MySelfResponse struct {
	User *User `json:"user"`
}

// UsersResponse is the body of UserService/GetUsers
type UsersResponse struct {
	Users *[]User `json:"users"`
}

// WorkspacesResponse is the body of GroupService/GetWorkspaces
type WorkspacesResponse struct {
	Workspaces *[]Workspace `json:"workspaces"`
}

// TasksResponse is the body of TaskService/GetTasks and GetMyTasks
type TasksResponse struct {
	Tasks *[]Task `json:"tasks"`
}

// TaskResponse is the body of TaskService/GetTask
type TaskResponse struct {
	Task *Task `json:"task"`
}

// TaskTemplatesResponse is the body of TaskTemplateService/GetTaskTemplates
type TaskTemplatesResponse struct {
	TaskTemplates *[]TaskTemplate `json:"taskTemplates"`
}
