package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tone-task/tone-mcp/internal/tone"
)

// Placeholders and separators.
const (
	// Unknown stands in for any absent scalar field.
	Unknown = "Unknown"

	// None stands in for empty lists and absent due dates.
	None = "なし"

	// Separator goes between top-level entries.
	Separator = "\n---\n"
)

// The replacer scans once; none of the replacements produce a later pattern,
// so this is equivalent to applying the four replacements one after another.
var escaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, `\"`,
	"\n", `\n`,
)

// Escape makes free text safe to embed in a single template line:
// < becomes &lt;, > becomes &gt;, " becomes \" and a newline becomes the two
// characters \n.
func Escape(s string) string {
	return escaper.Replace(s)
}

// JoinEntries joins formatted entries with Separator, preserving order.
func JoinEntries(entries []string) string {
	return strings.Join(entries, Separator)
}

// Each formats every item with fn and joins the results with Separator.
func Each[T any](items []T, fn func(T) string) string {
	entries := make([]string, len(items))
	for i, item := range items {
		entries[i] = fn(item)
	}
	return JoinEntries(entries)
}

// FormatDate normalizes an ISO-8601 timestamp to UTC RFC 3339. Absent dates
// render as None; values that do not parse are returned escaped as received.
func FormatDate(s string) string {
	return formatTimestamp(tone.Text(s), None)
}

func formatTimestamp(v tone.Text, absent string) string {
	s := string(v)
	if s == "" {
		return absent
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return Escape(s)
}

// FormatWorkspace renders a workspace header followed by its full JSON tree.
func FormatWorkspace(w tone.Workspace) string {
	return fmt.Sprintf(`
Workspace ID: %s
Workspace UserDefined ID: %s
Workspace Name: %s
Workspace Symbol Emoji: %s

Workspace Tree: %s
`,
		orUnknown(w.ID),
		orUnknown(w.UserDefinedWorkspaceID),
		orUnknown(w.Profile.Name),
		orUnknown(w.Profile.Emoji),
		workspaceTree(w))
}

func workspaceTree(w tone.Workspace) string {
	raw := []byte(w.Raw)
	if len(raw) == 0 {
		var err error
		if raw, err = json.Marshal(w); err != nil {
			return "{}"
		}
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// FormatAssignee renders "<name>（ID: <id>）".
func FormatAssignee(a tone.Assignee) string {
	return fmt.Sprintf("%s（ID: %s）", orUnknown(a.DisplayName), orUnknown(a.ID))
}

// FormatTask renders a task with its assignees as bullet lines, tags
// comma-joined and one indented line per sub-task.
func FormatTask(t tone.Task) string {
	return fmt.Sprintf(`
タスクID: %s
タイトル: %s
ステータス: %s
説明: %s
担当: %s
タグ: %s
期限: %s
リスト: %s
サブタスク: %s
`,
		orUnknown(t.ID),
		escapedOrUnknown(t.Title),
		orUnknown(t.Status),
		escapedOrUnknown(t.Description),
		assigneeBullets(t.Assignees),
		tagList(t.Tags),
		FormatDate(t.DueDate.String()),
		listRef(t.ListID, t.ListName),
		subTaskLines(t.SubTasks))
}

// FormatSubTask renders a sub-task on a single indented line.
func FormatSubTask(s tone.SubTask) string {
	return fmt.Sprintf("  - %s（ID: %s） ステータス: %s 担当: %s タグ: %s 期限: %s 説明: %s",
		escapedOrUnknown(s.Title),
		orUnknown(s.ID),
		orUnknown(s.Status),
		assigneeNames(s.Assignees),
		tagList(s.Tags),
		FormatDate(s.DueDate.String()),
		escapedOrUnknown(s.Description))
}

// FormatUser renders a workspace member.
func FormatUser(u tone.User) string {
	return fmt.Sprintf(`
ユーザーID: %s
表示名: %s
メール: %s
作成日時: %s
更新日時: %s
アイコンURL: %s
`,
		orUnknown(u.ID),
		orUnknown(u.DisplayName),
		orUnknown(u.Email),
		formatTimestamp(u.CreatedAt, Unknown),
		formatTimestamp(u.UpdatedAt, Unknown),
		orUnknown(u.IconURL))
}

// FormatMySelf renders the calling user, including profile description and
// account type.
func FormatMySelf(u tone.User) string {
	return fmt.Sprintf(`
ユーザーID: %s
メールアドレス: %s
表示名: %s
作成日時: %s
更新日時: %s
アイコンURL: %s
説明: %s
ユーザータイプ: %s
`,
		orUnknown(u.ID),
		orUnknown(u.Email),
		orUnknown(u.DisplayName),
		formatTimestamp(u.CreatedAt, Unknown),
		formatTimestamp(u.UpdatedAt, Unknown),
		orUnknown(u.IconURL),
		escapedOrUnknown(u.Description),
		orUnknown(u.Type))
}

// FormatTemplate renders a task template and the tasks it instantiates.
func FormatTemplate(t tone.TaskTemplate) string {
	return fmt.Sprintf(`
テンプレートID: %s
タイトル: %s
説明: %s
作成日時: %s
更新日時: %s
タスク: %s
`,
		orUnknown(t.ID),
		escapedOrUnknown(t.Title),
		escapedOrUnknown(t.Description),
		formatTimestamp(t.CreatedAt, Unknown),
		formatTimestamp(t.UpdatedAt, Unknown),
		templateTaskBullets(t.Tasks))
}

func orUnknown[S ~string](s S) string {
	if s == "" {
		return Unknown
	}
	return string(s)
}

func escapedOrUnknown[S ~string](s S) string {
	return Escape(orUnknown(s))
}

func assigneeBullets(assignees []tone.Assignee) string {
	if len(assignees) == 0 {
		return None
	}
	lines := make([]string, len(assignees))
	for i, a := range assignees {
		lines[i] = FormatAssignee(a)
	}
	return "\n- " + strings.Join(lines, "\n- ")
}

func assigneeNames(assignees []tone.Assignee) string {
	if len(assignees) == 0 {
		return None
	}
	names := make([]string, len(assignees))
	for i, a := range assignees {
		names[i] = orUnknown(a.DisplayName)
	}
	return strings.Join(names, ", ")
}

func tagList(tags []tone.Tag) string {
	if len(tags) == 0 {
		return None
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		name := tag.Name
		if name == "" {
			name = tag.ID
		}
		names[i] = escapedOrUnknown(name)
	}
	return strings.Join(names, ", ")
}

func listRef(id, name tone.Text) string {
	if id == "" && name == "" {
		return Unknown
	}
	return fmt.Sprintf("%s（ID: %s）", escapedOrUnknown(name), orUnknown(id))
}

func subTaskLines(subTasks []tone.SubTask) string {
	if len(subTasks) == 0 {
		return None
	}
	lines := make([]string, len(subTasks))
	for i, s := range subTasks {
		lines[i] = FormatSubTask(s)
	}
	return "\n" + strings.Join(lines, "\n")
}

func templateTaskBullets(tasks []tone.TemplateTask) string {
	if len(tasks) == 0 {
		return None
	}
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = fmt.Sprintf("- %s（説明: %s）", escapedOrUnknown(t.Title), escapedOrUnknown(t.Description))
	}
	return "\n" + strings.Join(lines, "\n")
}
