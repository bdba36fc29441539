// Package text renders transcripts as plain text, one line per segment with
// an optional timestamp prefix.
package text

import (
	"bufio"
	"io"
	"strings"

	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/render"
)

// Renderer writes plain-text transcripts.
type Renderer struct {
	cfg render.Config
}

// New creates a text Renderer. Only IncludeTimestamps and TimestampFormat
// are read from cfg.
func New(cfg render.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render writes one FormatLine per segment, in the order received.
func (r *Renderer) Render(w io.Writer, t *core.Transcript) error {
	bw := bufio.NewWriter(w)
	for _, s := range t.Segments {
		if _, err := bw.WriteString(FormatLine(s, r.cfg)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatLine renders a single segment as a newline-terminated line. The text
// is trimmed and never escaped.
//
//	no timestamps: "hi\n"
//	simple:        "[01:05] hi\n"
//	full:          "[00:01:05.000] -> [00:01:10.000]: hi\n"
func FormatLine(s core.Segment, cfg render.Config) string {
	text := strings.TrimSpace(s.Text)
	if !cfg.IncludeTimestamps {
		return text + "\n"
	}
	if cfg.TimestampFormat == render.TimestampSimple {
		return "[" + core.Clock(s.Start) + "] " + text + "\n"
	}
	return core.FormatTimestamp(s.Start) + " -> " + core.FormatTimestamp(s.End) + ": " + text + "\n"
}
