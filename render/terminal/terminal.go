// Package terminal renders transcripts as ANSI-colored lines for previewing
// on a terminal.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/render"
)

const defaultWidth = 100

// Renderer pretty-prints a transcript to the terminal.
type Renderer struct {
	// Width overrides terminal width detection. Zero means auto-detect.
	Width int

	cfg render.Config
}

// New creates a terminal Renderer. Timestamps follow cfg.
func New(cfg render.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render writes a header and one line per segment to w. Lines wider than
// the terminal are truncated.
func (r *Renderer) Render(w io.Writer, t *core.Transcript) error {
	width := r.termWidth()

	writeHeader(w, t, width)

	for _, s := range t.Segments {
		text := strings.TrimSpace(s.Text)
		prefix := r.prefix(s)
		avail := width - lipgloss.Width(prefix)
		if avail < 10 {
			avail = 10
		}
		if _, err := fmt.Fprintln(w, prefix+ansi.Truncate(text, avail, "…")); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) prefix(s core.Segment) string {
	if !r.cfg.IncludeTimestamps {
		return ""
	}
	if r.cfg.TimestampFormat == render.TimestampSimple {
		return styleTime.Render("["+core.Clock(s.Start)+"]") + " "
	}
	return styleTime.Render(core.FormatTimestamp(s.Start)+" -> "+core.FormatTimestamp(s.End)) + "  "
}

func (r *Renderer) termWidth() int {
	if r.Width > 0 {
		return r.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// writeHeader renders the media name, model and length, then a separator.
func writeHeader(w io.Writer, t *core.Transcript, width int) {
	title := t.MediaName()
	if title == "" {
		title = "Transcript"
	}
	fmt.Fprintln(w, styleTitle.Render(title))

	var parts []string
	if t.Model != "" {
		parts = append(parts, t.Model)
	}
	if t.Language != "" {
		parts = append(parts, t.Language)
	}
	parts = append(parts, core.Clock(t.Duration()), fmt.Sprintf("%d segments", len(t.Segments)))
	fmt.Fprintln(w, styleMeta.Render(strings.Join(parts, "  ")))
	fmt.Fprintln(w, styleSeparator.Render(strings.Repeat("─", min(width, 72))))
}
