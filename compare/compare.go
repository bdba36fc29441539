// Package compare measures how closely each model reproduces known reference
// texts. Every model transcribes the same file; the result is diffed against
// the reference per character and written up as a Markdown report.
package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/compact"
	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/transcribe"
)

// References maps media file paths to the text they are expected to
// transcribe to.
type References map[string]string

// LoadReferences reads a JSON object of media path to reference text.
// Relative paths are resolved against the directory of the references file.
func LoadReferences(path string) (References, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse references %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	refs := make(References, len(raw))
	for media, text := range raw {
		if !filepath.IsAbs(media) {
			media = filepath.Join(dir, media)
		}
		refs[media] = text
	}
	return refs, nil
}

// Paths returns the media paths in sorted order.
func (r References) Paths() []string {
	paths := make([]string, 0, len(r))
	for p := range r {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Run is one model's attempt at a file.
type Run struct {
	Model   string
	Elapsed time.Duration
	Text    string
	Diff    Diff
	Err     error
}

// Report collects the runs of every model for one media file.
type Report struct {
	Media     string
	Href      string // media link relative to the report, optional
	Reference string
	Runs      []Run
}

// Comparer transcribes files with several models. Engines are loaded on
// first use and kept until Close.
type Comparer struct {
	load     func(model string) (transcribe.Engine, error)
	language string
	engines  map[string]transcribe.Engine
	now      func() time.Time
}

// New creates a Comparer that loads engines with load and transcribes in
// language.
func New(load func(model string) (transcribe.Engine, error), language string) *Comparer {
	return &Comparer{
		load:     load,
		language: language,
		engines:  map[string]transcribe.Engine{},
		now:      time.Now,
	}
}

// Compare transcribes media with each model in order and diffs the result
// against reference. A model that fails to load or transcribe is recorded
// with its error; the remaining models still run.
func (c *Comparer) Compare(ctx context.Context, media, reference string, models []string) Report {
	rep := Report{Media: media, Reference: reference}
	for _, model := range models {
		run := Run{Model: model}
		engine, err := c.engine(model)
		if err != nil {
			run.Err = err
			rep.Runs = append(rep.Runs, run)
			continue
		}

		started := c.now()
		segments, err := engine.Transcribe(ctx, media, c.language)
		run.Elapsed = c.now().Sub(started)
		if err != nil {
			log.Error("transcribe failed", "path", media, "model", model, "err", err)
			run.Err = err
			rep.Runs = append(rep.Runs, run)
			continue
		}

		run.Text = joinSegments(segments)
		run.Diff = Compare(reference, run.Text)
		log.Info("compared", "path", media, "model", model, "rate", fmt.Sprintf("%.2f%%", run.Diff.Rate()))
		rep.Runs = append(rep.Runs, run)
	}
	return rep
}

func (c *Comparer) engine(model string) (transcribe.Engine, error) {
	if e, ok := c.engines[model]; ok {
		return e, nil
	}
	e, err := c.load(model)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", model, err)
	}
	c.engines[model] = e
	return e, nil
}

// Close releases every loaded engine that holds resources.
func (c *Comparer) Close() error {
	var errs []error
	for model, e := range c.engines {
		if cl, ok := e.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", model, err))
			}
		}
		delete(c.engines, model)
	}
	return errors.Join(errs...)
}

func joinSegments(segments []core.Segment) string {
	var text string
	for _, s := range segments {
		text = compact.JoinText(text, s.Text)
	}
	return text
}

// FileName returns the report file name for media, "{base}_compare.md".
func FileName(media string) string {
	base := filepath.Base(media)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_compare.md"
}
