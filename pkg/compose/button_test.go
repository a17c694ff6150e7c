package compose

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func convertWithButtons(t *testing.T, source string) string {
	t.Helper()

	md := goldmark.New(goldmark.WithExtensions(NewButtonExtension()))

	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte(source), &buf))
	return buf.String()
}

func TestButtonExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "single button",
			source:   `[!button|Confirm](https://example.com/confirm)`,
			contains: []string{`<a href="https://example.com/confirm" class="btn">Confirm</a>`},
		},
		{
			name:   "surrounded by markdown",
			source: "# Receipt\n\nYour order shipped.\n\n[!button|Track](https://example.com/track)\n\nThanks",
			contains: []string{
				"<h1>Receipt</h1>",
				`<a href="https://example.com/track" class="btn">Track</a>`,
				"Thanks",
			},
		},
		{
			name:   "two buttons",
			source: "[!button|Yes](https://example.com/yes)\n[!button|No](https://example.com/no)",
			contains: []string{
				`<a href="https://example.com/yes" class="btn">Yes</a>`,
				`<a href="https://example.com/no" class="btn">No</a>`,
			},
		},
		{
			name:     "empty label",
			source:   `[!button|](https://example.com)`,
			contains: []string{`<a href="https://example.com" class="btn"></a>`},
		},
		{
			name:     "label is escaped",
			source:   `[!button|Save & Exit](https://example.com)`,
			contains: []string{"Save &amp; Exit"},
		},
		{
			name:     "markup in label is escaped",
			source:   `[!button|<b>x</b>](https://example.com)`,
			contains: []string{"&lt;b&gt;x&lt;/b&gt;"},
			excludes: []string{"<b>"},
		},
		{
			name:     "query string kept",
			source:   `[!button|Reset](https://example.com/reset?token=abc&id=7)`,
			contains: []string{"https://example.com/reset?token=abc&amp;id=7"},
		},
		{
			name:     "regular link untouched",
			source:   `[Docs](https://example.com/docs)`,
			contains: []string{`<a href="https://example.com/docs">Docs</a>`},
			excludes: []string{`class="btn"`},
		},
		{
			name:     "missing target",
			source:   `[!button|Confirm]`,
			excludes: []string{`class="btn"`},
		},
		{
			name:     "missing closing bracket",
			source:   `[!button|Confirm(https://example.com)`,
			excludes: []string{`class="btn"`},
		},
		{
			name:     "missing closing paren",
			source:   `[!button|Confirm](https://example.com`,
			excludes: []string{`class="btn"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := convertWithButtons(t, tt.source)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestButtonNode(t *testing.T) {
	t.Parallel()

	node := &ButtonNode{URL: []byte("https://example.com"), Label: []byte("Go")}
	assert.Equal(t, KindButton, node.Kind())
	assert.NotPanics(t, func() { node.Dump([]byte("src"), 0) })
	assert.Equal(t, []byte{'['}, NewButtonParser().Trigger())
}
