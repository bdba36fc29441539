// Package output writes rendered transcripts to the output directory. File
// names are derived from the input file name and model only, so repeated
// runs overwrite their own previous output and different models never
// collide.
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/render"
	htmlrender "github.com/sonnes/kikitori/render/html"
	jsonrender "github.com/sonnes/kikitori/render/json"
	"github.com/sonnes/kikitori/render/markdown"
	"github.com/sonnes/kikitori/render/terminal"
	"github.com/sonnes/kikitori/render/text"
)

// Artifact describes the files produced for one input and model.
type Artifact struct {
	Input  string        // source media path
	Model  string        // empty when no model name was given
	Format render.Format
	Path   string        // written transcript file
	Media  string        // copied media file, html only
}

// Writer renders transcripts into cfg.OutputDir.
type Writer struct {
	cfg render.Config
	rnd render.Renderer
}

// New creates a Writer for cfg.OutputFormat.
func New(cfg render.Config) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rnd, err := NewRenderer(cfg, cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	return &Writer{cfg: cfg, rnd: rnd}, nil
}

// NewRenderer returns the renderer for format f, configured from cfg.
func NewRenderer(cfg render.Config, f render.Format) (render.Renderer, error) {
	switch f {
	case render.FormatText:
		return text.New(cfg), nil
	case render.FormatHTML:
		r := htmlrender.New()
		r.Lang = cfg.Language
		return r, nil
	case render.FormatMarkdown:
		return markdown.New(cfg), nil
	case render.FormatJSON:
		return jsonrender.New(), nil
	case render.FormatTerminal:
		return terminal.New(cfg), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", f)
	}
}

// Config returns the writer's configuration.
func (w *Writer) Config() render.Config {
	return w.cfg
}

// Create renders segments of basePath into the output directory as
// "{base}[_{model}].{ext}". For html the media file is copied next to the
// page first so the page's relative media reference resolves. The output
// directory is created when missing; existing files are replaced.
func (w *Writer) Create(basePath string, segments []core.Segment, model string) (Artifact, error) {
	if err := os.MkdirAll(w.cfg.OutputDir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create output directory: %w", err)
	}

	t := &core.Transcript{
		Source:   basePath,
		Model:    model,
		Language: w.cfg.Language,
		Segments: segments,
	}

	a := Artifact{
		Input:  basePath,
		Model:  model,
		Format: w.cfg.OutputFormat,
		Path:   filepath.Join(w.cfg.OutputDir, render.FileName(basePath, model, w.cfg.OutputFormat)),
	}

	if w.cfg.OutputFormat == render.FormatHTML {
		a.Media = filepath.Join(w.cfg.OutputDir, filepath.Base(basePath))
		if err := copyFile(basePath, a.Media); err != nil {
			return Artifact{}, fmt.Errorf("copy media: %w", err)
		}
	}

	if err := WriteFileAtomic(a.Path, func(bw *bufio.Writer) error {
		return w.rnd.Render(bw, t)
	}); err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", a.Path, err)
	}

	log.Info("output", "input", basePath, "path", a.Path)
	if a.Media != "" {
		log.Info("media", "path", a.Media)
	}
	return a, nil
}

// WriteFileAtomic renders into a temporary file in the destination
// directory and renames it over path. A failed render, flush or close
// leaves any existing file at path untouched.
func WriteFileAtomic(path string, fn func(*bufio.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriter(tmp)
	if err := fn(bw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
