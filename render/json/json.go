// Package json renders transcripts as JSON (serializes core.Transcript as-is).
package json

import (
	"encoding/json"
	"io"

	"github.com/sonnes/kikitori/core"
)

// Renderer renders a transcript to JSON.
type Renderer struct {
	// Indent controls pretty-printing. When true, output is indented.
	Indent bool
}

// New creates a JSON Renderer with indentation enabled.
func New() *Renderer {
	return &Renderer{Indent: true}
}

// Render writes t as a single JSON document followed by a newline.
func (r *Renderer) Render(w io.Writer, t *core.Transcript) error {
	out := *t
	if out.Segments == nil {
		out.Segments = []core.Segment{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
