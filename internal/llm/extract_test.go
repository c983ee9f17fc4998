package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCommitMessage(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "json object",
			output: `{"commit_message": "feat: add login"}`,
			want:   "feat: add login",
		},
		{
			name:   "json with body and padding",
			output: "  {\"commit_message\": \"  fix(api): handle nil\\n\\nGuard the handler.  \"}\n",
			want:   "fix(api): handle nil\n\nGuard the handler.",
		},
		{
			name:   "fenced json",
			output: "```json\n{\"commit_message\": \"docs: update readme\"}\n```",
			want:   "docs: update readme",
		},
		{
			name:   "json surrounded by prose",
			output: "Here you go:\n{\"commit_message\": \"chore: bump deps\"}\nHope that helps.",
			want:   "chore: bump deps",
		},
		{
			name:   "xml tag",
			output: "Sure.\n<commit_message>\nrefactor: split parser\n</commit_message>",
			want:   "refactor: split parser",
		},
		{
			name:   "plain text",
			output: "\n\nstyle: format code\n",
			want:   "style: format code",
		},
		{
			name:   "json without the field falls back to text",
			output: `{"message": "x"}`,
			want:   `{"message": "x"}`,
		},
		{
			name:   "fenced plain text",
			output: "```\ntest: add cases\n```",
			want:   "test: add cases",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractCommitMessage(tc.output)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractCommitMessage_Empty(t *testing.T) {
	for _, output := range []string{"", "   \n", `{"commit_message": "  "}`, "<commit_message></commit_message>"} {
		_, err := ExtractCommitMessage(output)
		require.ErrorIs(t, err, ErrEmptyMessage, "output %q", output)
	}
}
