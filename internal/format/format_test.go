package format

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tone-task/tone-mcp/internal/tone"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "all four", in: "a<b>\"c\"\nd", want: `a&lt;b&gt;\"c\"\nd`},
		{name: "plain", in: "買い物リスト", want: "買い物リスト"},
		{name: "empty", in: "", want: ""},
		{name: "ampersand untouched", in: "R&D", want: "R&D"},
		{name: "multiple newlines", in: "a\n\nb", want: `a\n\nb`},
		{name: "html tag", in: "<script>", want: "&lt;script&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestEscape_NoRawNewlines(t *testing.T) {
	assert.NotContains(t, Escape("line1\nline2\n"), "\n")
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "absent", in: "", want: None},
		{name: "utc", in: "2024-07-01T00:00:00Z", want: "2024-07-01T00:00:00Z"},
		{name: "nanos", in: "2024-07-01T00:00:00.123456789Z", want: "2024-07-01T00:00:00Z"},
		{name: "offset normalized to utc", in: "2024-07-01T09:00:00+09:00", want: "2024-07-01T00:00:00Z"},
		{name: "date only", in: "2024-07-01", want: "2024-07-01T00:00:00Z"},
		{name: "unparseable escaped", in: "next <week>", want: "next &lt;week&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}

func TestFormatTask_AllFieldsAbsent(t *testing.T) {
	out := FormatTask(tone.Task{})

	assert.Equal(t, `
タスクID: Unknown
タイトル: Unknown
ステータス: Unknown
説明: Unknown
担当: なし
タグ: なし
期限: なし
リスト: Unknown
サブタスク: なし
`, out)
}

func TestFormatTask_Full(t *testing.T) {
	task := tone.Task{
		ID:          "t-1",
		Title:       "Write <report>",
		Status:      tone.StatusDoing,
		Description: "line1\nline2",
		DueDate:     "2024-07-01T00:00:00Z",
		ListID:      "l-1",
		ListName:    "Sprint",
		Assignees: []tone.Assignee{
			{ID: "u-1", DisplayName: "Hanako"},
			{ID: "u-2", DisplayName: "Taro"},
		},
		Tags: []tone.Tag{{Name: "urgent"}, {ID: "tag-2", Name: "backend"}},
		SubTasks: []tone.SubTask{
			{
				ID:        "s-1",
				Title:     "Draft",
				Status:    tone.StatusTodo,
				Assignees: []tone.Assignee{{ID: "u-1", DisplayName: "Hanako"}},
			},
		},
	}

	out := FormatTask(task)

	assert.Contains(t, out, "タスクID: t-1\n")
	assert.Contains(t, out, "タイトル: Write &lt;report&gt;\n")
	assert.Contains(t, out, `説明: line1\nline2`+"\n")
	assert.Contains(t, out, "担当: \n- Hanako（ID: u-1）\n- Taro（ID: u-2）\n")
	assert.Contains(t, out, "タグ: urgent, backend\n")
	assert.Contains(t, out, "期限: 2024-07-01T00:00:00Z\n")
	assert.Contains(t, out, "リスト: Sprint（ID: l-1）\n")
	assert.Contains(t, out,
		"サブタスク: \n  - Draft（ID: s-1） ステータス: TODO 担当: Hanako タグ: なし 期限: なし 説明: Unknown\n")

	subTaskLines := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "  - ") {
			subTaskLines++
		}
	}
	assert.Equal(t, 1, subTaskLines)
}

func TestFormatSubTask(t *testing.T) {
	out := FormatSubTask(tone.SubTask{
		ID:          "s-1",
		Title:       `Say "hi"`,
		Status:      tone.StatusDone,
		Description: "a\nb",
		DueDate:     "2024-07-01",
		Assignees:   []tone.Assignee{{ID: "u-1", DisplayName: "Hanako"}, {ID: "u-2"}},
		Tags:        []tone.Tag{{Name: "x"}, {Name: "y"}},
	})

	assert.Equal(t,
		`  - Say \"hi\"（ID: s-1） ステータス: DONE 担当: Hanako, Unknown タグ: x, y 期限: 2024-07-01T00:00:00Z 説明: a\nb`,
		out)
	assert.NotContains(t, out, "\n")
}

func TestFormatSubTask_AllFieldsAbsent(t *testing.T) {
	assert.Equal(t,
		"  - Unknown（ID: Unknown） ステータス: Unknown 担当: なし タグ: なし 期限: なし 説明: Unknown",
		FormatSubTask(tone.SubTask{}))
}

func TestFormatTask_TagFallsBackToID(t *testing.T) {
	out := FormatTask(tone.Task{Tags: []tone.Tag{{ID: "tag-1"}, {}}})
	assert.Contains(t, out, "タグ: tag-1, Unknown\n")
}

func TestFormatUser(t *testing.T) {
	t.Run("all fields absent", func(t *testing.T) {
		assert.Equal(t, `
ユーザーID: Unknown
表示名: Unknown
メール: Unknown
作成日時: Unknown
更新日時: Unknown
アイコンURL: Unknown
`, FormatUser(tone.User{}))
	})

	t.Run("full", func(t *testing.T) {
		out := FormatUser(tone.User{
			ID:          "u-1",
			DisplayName: "Hanako",
			Email:       "hanako@example.com",
			CreatedAt:   "2024-01-02T03:04:05.000Z",
			UpdatedAt:   "2024-02-03T04:05:06Z",
			IconURL:     "https://example.com/icon.png",
		})
		assert.Contains(t, out, "ユーザーID: u-1\n")
		assert.Contains(t, out, "メール: hanako@example.com\n")
		assert.Contains(t, out, "作成日時: 2024-01-02T03:04:05Z\n")
		assert.Contains(t, out, "アイコンURL: https://example.com/icon.png\n")
	})
}

func TestFormatMySelf(t *testing.T) {
	out := FormatMySelf(tone.User{ID: "u-1", Type: "MEMBER", Description: "<b>PM</b>"})

	assert.Contains(t, out, "ユーザーID: u-1\n")
	assert.Contains(t, out, "メールアドレス: Unknown\n")
	assert.Contains(t, out, "説明: &lt;b&gt;PM&lt;/b&gt;\n")
	assert.Contains(t, out, "ユーザータイプ: MEMBER\n")
}

func TestFormatTemplate(t *testing.T) {
	t.Run("all fields absent", func(t *testing.T) {
		out := FormatTemplate(tone.TaskTemplate{})
		assert.Contains(t, out, "テンプレートID: Unknown\n")
		assert.Contains(t, out, "タスク: なし\n")
	})

	t.Run("with tasks", func(t *testing.T) {
		out := FormatTemplate(tone.TaskTemplate{
			ID:    "tpl-1",
			Title: "Onboarding",
			Tasks: []tone.TemplateTask{
				{Title: "Create account", Description: "via admin"},
				{Title: "Read handbook"},
			},
		})
		assert.Contains(t, out, "タイトル: Onboarding\n")
		assert.Contains(t, out, "タスク: \n- Create account（説明: via admin）\n- Read handbook（説明: Unknown）\n")
	})
}

func TestFormatWorkspace(t *testing.T) {
	var w tone.Workspace
	require.NoError(t, json.Unmarshal([]byte(
		`{"id":"ws-1","userDefinedWorkspaceId":"acme","profile":{"name":"Acme","emoji":"🚀"},"teamspaces":[{"id":"ts-1","lists":[{"id":"l-1"}]}]}`,
	), &w))

	out := FormatWorkspace(w)

	assert.Contains(t, out, "Workspace ID: ws-1\n")
	assert.Contains(t, out, "Workspace UserDefined ID: acme\n")
	assert.Contains(t, out, "Workspace Name: Acme\n")
	assert.Contains(t, out, "Workspace Symbol Emoji: 🚀\n")
	assert.Contains(t, out, "Workspace Tree: {\n  \"id\": \"ws-1\"")
	assert.Contains(t, out, `"teamspaces": [`)
	assert.Contains(t, out, `"id": "l-1"`)
}

func TestFormatWorkspace_AllFieldsAbsent(t *testing.T) {
	out := FormatWorkspace(tone.Workspace{})

	assert.Contains(t, out, "Workspace ID: Unknown\n")
	assert.Contains(t, out, "Workspace Name: Unknown\n")
	assert.Contains(t, out, "Workspace Symbol Emoji: Unknown\n")
	assert.Contains(t, out, "Workspace Tree: {")
}

func TestJoinEntries(t *testing.T) {
	tasks := []tone.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out := Each(tasks, FormatTask)

	assert.Equal(t, 2, strings.Count(out, "---"))
	ia := strings.Index(out, "タスクID: a")
	ib := strings.Index(out, "タスクID: b")
	ic := strings.Index(out, "タスクID: c")
	require.True(t, ia >= 0 && ib >= 0 && ic >= 0)
	assert.True(t, ia < ib && ib < ic, "entries should keep input order")
}

func TestJoinEntries_Edges(t *testing.T) {
	assert.Equal(t, "", JoinEntries(nil))
	assert.Equal(t, "only", JoinEntries([]string{"only"}))
	assert.Equal(t, "a\n---\nb", JoinEntries([]string{"a", "b"}))
}
