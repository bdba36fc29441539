package markdown

import (
	"bytes"
	"testing"

	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tr := &core.Transcript{
		Source: "/in/standup_2026.m4a",
		Model:  "small",
		Segments: []core.Segment{
			{Text: " Good morning ", Start: 0, End: 3.2},
			{Text: "see *notes* at [link]", Start: 65, End: 70},
		},
	}
	cfg := render.DefaultConfig()
	cfg.Language = "en"

	var buf bytes.Buffer
	require.NoError(t, New(cfg).Render(&buf, tr))
	out := buf.String()

	assert.Contains(t, out, "# standup\\_2026.m4a\n")
	assert.Contains(t, out, "- Model: `small`\n")
	assert.Contains(t, out, "- Language: `en`\n")
	assert.Contains(t, out, "- Duration: 01:10\n")
	assert.Contains(t, out, "**[00:00-00:03]** Good morning\n\n")
	assert.Contains(t, out, `**[01:05-01:10]** see \*notes\* at \[link\]`)
}

func TestRenderWithoutTimestamps(t *testing.T) {
	tr := &core.Transcript{Segments: []core.Segment{{Text: "hello", Start: 1, End: 2}}}
	cfg := render.DefaultConfig()
	cfg.IncludeTimestamps = false

	var buf bytes.Buffer
	require.NoError(t, New(cfg).Render(&buf, tr))
	out := buf.String()

	assert.Contains(t, out, "# Transcript\n")
	assert.Contains(t, out, "---\n\nhello\n\n")
	assert.NotContains(t, out, "**[")
}
