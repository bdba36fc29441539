// Package html renders transcripts as self-contained HTML viewers: a media
// player next to the segment list, with search, copy, inline editing and
// playback-synced highlighting done in inline JavaScript. Styles and scripts
// are inline so the page works from a plain directory with only the media
// file next to it.
package html

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sonnes/kikitori/core"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// videoExts are the extensions rendered with a <video> element. Everything
// else gets <audio>.
var videoExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".ogg":  true,
}

// IsVideo reports whether the media file is shown in a video element.
func IsVideo(name string) bool {
	return videoExts[strings.ToLower(filepath.Ext(name))]
}

// Renderer renders transcripts, index pages and Markdown reports to HTML.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template

	// Lang is written to the <html lang> attribute. Empty means "en".
	Lang string
}

// New creates an HTML Renderer with goldmark configured for GFM and syntax
// highlighting of fenced blocks in reports.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles for standalone pages
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)

	tmpl := template.Must(
		template.New("page.html").
			Funcs(funcMap()).
			ParseFS(content, "templates/*.html"),
	)

	return &Renderer{md: md, tmpl: tmpl}
}

// pageData is the top-level template data passed to page.html.
type pageData struct {
	Lang      string
	Title     string
	Media     string // sibling media file name, relative to the page
	MediaKind string // "video" or "audio"
	MediaType string // MIME type for <source>, e.g. "audio/mp3"
	Model     string
	Duration  string
	Segments  []segmentData
}

// segmentData is the per-segment template data.
type segmentData struct {
	ID    string
	Start string // raw seconds, exact
	End   string
	Label string // "MM:SS - MM:SS"
	Text  string
}

// Render writes the transcript as a complete HTML viewer page to w. The media
// element points at t.MediaName(), which the caller is responsible for
// placing next to the page.
func (r *Renderer) Render(w io.Writer, t *core.Transcript) error {
	media := t.MediaName()
	ext := strings.ToLower(filepath.Ext(media))

	kind := "audio"
	if videoExts[ext] {
		kind = "video"
	}

	data := pageData{
		Lang:      r.lang(),
		Title:     "Transcript - " + media,
		Media:     media,
		MediaKind: kind,
		MediaType: kind + "/" + strings.TrimPrefix(ext, "."),
		Model:     t.Model,
		Duration:  core.Clock(t.Duration()),
		Segments:  make([]segmentData, len(t.Segments)),
	}
	for i, s := range t.Segments {
		data.Segments[i] = segmentData{
			ID:    fmt.Sprintf("seg-%d", i),
			Start: core.FormatSeconds(s.Start),
			End:   core.FormatSeconds(s.End),
			Label: core.Clock(s.Start) + " - " + core.Clock(s.End),
			Text:  strings.TrimSpace(s.Text),
		}
	}
	return r.tmpl.ExecuteTemplate(w, "page.html", data)
}

// indexData is the template data passed to index.html.
type indexData struct {
	Lang    string
	Entries []core.ManifestEntry
}

// RenderIndex writes an HTML index page listing the given manifest entries.
// Entries are sorted by source file, then model.
func (r *Renderer) RenderIndex(w io.Writer, entries []core.ManifestEntry) error {
	sorted := make([]core.ManifestEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Source != sorted[j].Source {
			return sorted[i].Source < sorted[j].Source
		}
		return sorted[i].Model < sorted[j].Model
	})
	return r.tmpl.ExecuteTemplate(w, "index.html", indexData{Lang: r.lang(), Entries: sorted})
}

// reportData is the template data passed to report.html.
type reportData struct {
	Lang  string
	Title string
	Media string // optional player source, relative to the page
	Body  template.HTML
}

// RenderMarkdown converts a Markdown document to a standalone HTML page.
// Raw HTML in the source is omitted by goldmark's default renderer, so a
// media player for the page is passed as media and emitted by the template.
func (r *Renderer) RenderMarkdown(w io.Writer, title, media string, src []byte) error {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return fmt.Errorf("goldmark convert: %w", err)
	}
	return r.tmpl.ExecuteTemplate(w, "report.html", reportData{
		Lang:  r.lang(),
		Title: title,
		Media: media,
		Body:  template.HTML(buf.String()),
	})
}

func (r *Renderer) lang() string {
	if r.Lang == "" || r.Lang == "auto" {
		return "en"
	}
	return r.Lang
}
