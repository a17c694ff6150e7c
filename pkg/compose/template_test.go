package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		metadata map[string]any
		body     string
	}{
		{
			name:     "frontmatter and body",
			content:  "---\nSubject: Your invoice\nPriority: high\n---\n# Invoice\n\nTotal: {{.Total}}\n",
			metadata: map[string]any{"Subject": "Your invoice", "Priority": "high"},
			body:     "# Invoice\n\nTotal: {{.Total}}\n",
		},
		{
			name:     "no frontmatter",
			content:  "# Plain\n\nNo metadata here.",
			metadata: map[string]any{},
			body:     "# Plain\n\nNo metadata here.",
		},
		{
			name:     "empty frontmatter",
			content:  "---\n---\nJust a body.",
			metadata: map[string]any{},
			body:     "Just a body.",
		},
		{
			name:     "blank frontmatter",
			content:  "---\n   \n---\nBody",
			metadata: map[string]any{},
			body:     "Body",
		},
		{
			name:     "crlf line endings",
			content:  "---\r\nSubject: Hi\r\n---\r\nBody\r\n",
			metadata: map[string]any{"Subject": "Hi"},
			body:     "Body\r\n",
		},
		{
			name:     "nested values",
			content:  "---\nSubject: Report\nTags:\n  - weekly\n  - ops\n---\nbody",
			metadata: map[string]any{"Subject": "Report", "Tags": []any{"weekly", "ops"}},
			body:     "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := ParseTemplate([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.metadata, tmpl.Metadata)
			assert.Equal(t, tt.body, tmpl.Body)
		})
	}
}

func TestParseTemplate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "only opening delimiter", content: "---\n"},
		{name: "missing closing delimiter", content: "---\nSubject: Hi\nBody"},
		{name: "malformed yaml", content: "---\nSubject: [unterminated\n---\nBody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseTemplate([]byte(tt.content))
			require.ErrorIs(t, err, ErrInvalidFrontmatter)
		})
	}
}

func TestTemplate_Subject(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseTemplate([]byte("---\nSubject: Hello {{.Name}}\n---\nbody"))
	require.NoError(t, err)

	subject, ok := tmpl.Subject()
	assert.True(t, ok)
	assert.Equal(t, "Hello {{.Name}}", subject)

	tmpl, err = ParseTemplate([]byte("---\nSubject: 42\n---\nbody"))
	require.NoError(t, err)

	_, ok = tmpl.Subject()
	assert.False(t, ok)

	tmpl, err = ParseTemplate([]byte("no frontmatter"))
	require.NoError(t, err)

	_, ok = tmpl.Subject()
	assert.False(t, ok)
}
