package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []string
		wantErr string
	}{
		{
			name:  "single string",
			input: "task-1",
			want:  []string{"task-1"},
		},
		{
			name:  "array of strings",
			input: []interface{}{"task-1", "task-2", "task-3"},
			want:  []string{"task-1", "task-2", "task-3"},
		},
		{
			name:  "typed string slice",
			input: []string{"task-1", "task-2"},
			want:  []string{"task-1", "task-2"},
		},
		{
			name:    "nil input",
			input:   nil,
			wantErr: "task_ids is required",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: "task_ids cannot be empty",
		},
		{
			name:    "empty array",
			input:   []interface{}{},
			wantErr: "task_ids cannot be empty",
		},
		{
			name:    "array with non-string",
			input:   []interface{}{"task-1", 123, "task-3"},
			wantErr: "task_ids[1] must be a string",
		},
		{
			name:    "array with empty string",
			input:   []interface{}{"task-1", "", "task-3"},
			wantErr: "task_ids[1] cannot be empty",
		},
		{
			name:    "invalid type",
			input:   123,
			wantErr: "task_ids must be a string or array of strings",
		},
		{
			name:  "JSON string array",
			input: `["task-1", "task-2", "task-3"]`,
			want:  []string{"task-1", "task-2", "task-3"},
		},
		{
			name:  "JSON string single element array",
			input: `["task-1"]`,
			want:  []string{"task-1"},
		},
		{
			name:    "JSON string empty array",
			input:   `[]`,
			wantErr: "task_ids cannot be empty",
		},
		{
			name:    "JSON string array with number",
			input:   `["task-1", 2]`,
			wantErr: "task_ids[1] must be a string",
		},
		{
			name:  "invalid JSON string",
			input: `[invalid json`,
			want:  []string{`[invalid json`},
		},
		{
			name:  "string starting with bracket (not JSON)",
			input: `[draft] task`,
			want:  []string{`[draft] task`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, "task_ids")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStringArray(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []string
		wantErr bool
	}{
		{name: "missing", input: nil, want: []string{}},
		{name: "empty array", input: []interface{}{}, want: []string{}},
		{name: "array", input: []interface{}{"u-1", "u-2"}, want: []string{"u-1", "u-2"}},
		{name: "typed slice", input: []string{"u-1"}, want: []string{"u-1"}},
		{name: "JSON string array", input: `["u-1"]`, want: []string{"u-1"}},
		{name: "JSON string empty array", input: `[]`, want: []string{}},
		{name: "bare string", input: "u-1", wantErr: true},
		{name: "non-string entry", input: []interface{}{"u-1", true}, wantErr: true},
		{name: "empty entry", input: []interface{}{""}, wantErr: true},
		{name: "number", input: 7, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringArray(tt.input, "assign_user_ids")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
