// Package markdown renders transcripts as Markdown documents: a metadata
// header followed by one paragraph per segment.
package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/render"
)

// Renderer writes Markdown transcripts.
type Renderer struct {
	cfg render.Config
}

// New creates a Markdown Renderer. IncludeTimestamps and Language are read
// from cfg.
func New(cfg render.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render writes the transcript to w.
func (r *Renderer) Render(w io.Writer, t *core.Transcript) error {
	var b strings.Builder

	title := t.MediaName()
	if title == "" {
		title = "Transcript"
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(title))
	if t.Model != "" {
		fmt.Fprintf(&b, "- Model: `%s`\n", t.Model)
	}
	lang := t.Language
	if lang == "" {
		lang = r.cfg.Language
	}
	if lang != "" {
		fmt.Fprintf(&b, "- Language: `%s`\n", lang)
	}
	fmt.Fprintf(&b, "- Duration: %s\n", core.Clock(t.Duration()))
	fmt.Fprintf(&b, "- Segments: %d\n", len(t.Segments))
	b.WriteString("\n---\n\n")

	for _, s := range t.Segments {
		text := escape(strings.TrimSpace(s.Text))
		if r.cfg.IncludeTimestamps {
			fmt.Fprintf(&b, "**[%s-%s]** %s\n\n", core.Clock(s.Start), core.Clock(s.End), text)
		} else {
			fmt.Fprintf(&b, "%s\n\n", text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"#", `\#`,
)

// escape backslash-escapes characters that would otherwise start Markdown
// emphasis, code, links or HTML.
func escape(s string) string {
	return mdEscaper.Replace(s)
}
