package tone

import "strings"

// Method is the path of a tone RPC method relative to the API base URL.
type Method string

// User service
const (
	MethodGetMySelf Method = "/proto.user.v1.UserService/GetMySelf"
	MethodGetUsers  Method = "/proto.user.v1.UserService/GetUsers"
)

// Group service
const (
	MethodGetWorkspaces Method = "/proto.group.v1.GroupService/GetWorkspaces"
	MethodCreateList    Method = "/proto.group.v1.GroupService/CreateList"
)

// Task service
const (
	MethodGetMyTasks               Method = "/proto.task.v1.TaskService/GetMyTasks"
	MethodGetTasks                 Method = "/proto.task.v1.TaskService/GetTasks"
	MethodGetTask                  Method = "/proto.task.v1.TaskService/GetTask"
	MethodCreateTask               Method = "/proto.task.v1.TaskService/CreateTask"
	MethodCreateSubTask            Method = "/proto.task.v1.TaskService/CreateSubTask"
	MethodUpdateTaskTitle          Method = "/proto.task.v1.TaskService/UpdateTaskTitle"
	MethodUpdateTaskDescription    Method = "/proto.task.v1.TaskService/UpdateTaskDescription"
	MethodBatchUpdateTaskStatus    Method = "/proto.task.v1.TaskService/BatchUpdateTaskStatus"
	MethodBatchUpdateTaskAssignees Method = "/proto.task.v1.TaskService/BatchUpdateTaskAssignees"
	MethodBatchUpdateTaskDueDate   Method = "/proto.task.v1.TaskService/BatchUpdateTaskDueDate"
)

// Task template service
const (
	MethodGetTaskTemplates        Method = "/proto.task.v1.TaskTemplateService/GetTaskTemplates"
	MethodCreateTasksFromTemplate Method = "/proto.task.v1.TaskTemplateService/CreateTasksFromTemplate"
)

// Service returns the short service name used for metric labels,
// e.g. "task" for /proto.task.v1.TaskService/GetTasks.
func (m Method) Service() string {
	parts := strings.Split(strings.TrimPrefix(string(m), "/"), "/")
	segments := strings.Split(parts[0], ".")
	if len(segments) < 2 {
		return "unknown"
	}
	return segments[1]
}

// Name returns the RPC name, e.g. "GetTasks".
func (m Method) Name() string {
	s := string(m)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// String returns the method path.
func (m Method) String() string {
	return string(m)
}
