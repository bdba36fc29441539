// Package process drives transcription: it holds the currently selected
// model, runs one input file through transcription, optional transformers
// and the output writer, and reports a structured Result per file.
package process

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/manifest"
	"github.com/sonnes/kikitori/output"
	"github.com/sonnes/kikitori/transcribe"
)

// ErrNoModel is reported when Process is called before SetModel.
var ErrNoModel = errors.New("model not set")

// Status is the outcome kind of processing one file.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped" // no model configured, nothing written
	StatusFailed  Status = "failed"
)

// Result is the outcome of processing one file.
type Result struct {
	Path     string
	Model    string
	Status   Status
	Artifact output.Artifact // set when Status is StatusOK
	Err      error           // cause for skipped and failed results
}

// Config holds the processing settings that are not about rendering.
type Config struct {
	InputDir string
	Language string // passed to the engine; "" or "auto" detects
}

// Processor transcribes files with the current model and writes outputs.
// It is not safe for concurrent use.
type Processor struct {
	cfg          Config
	out          *output.Writer
	conv         Converter
	transformers []core.Transformer
	manifest     bool
	now          func() time.Time

	model  string
	engine transcribe.Engine
}

// Option configures a Processor.
type Option func(*Processor)

// WithConverter sets the converter applied to inputs in Batch.
func WithConverter(c Converter) Option {
	return func(p *Processor) { p.conv = c }
}

// WithTransformers sets transformers applied to each transcript before it is
// written.
func WithTransformers(ts ...core.Transformer) Option {
	return func(p *Processor) { p.transformers = ts }
}

// WithManifest records every written file in the output directory's
// manifest.json.
func WithManifest() Option {
	return func(p *Processor) { p.manifest = true }
}

// WithClock overrides time.Now for manifest timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// New creates a Processor writing through out.
func New(cfg Config, out *output.Writer, opts ...Option) *Processor {
	p := &Processor{cfg: cfg, out: out, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// SetModel selects the model used by subsequent Process calls. name is used
// for output naming; e performs the transcription.
func (p *Processor) SetModel(name string, e transcribe.Engine) {
	p.model = name
	p.engine = e
}

// Model returns the current model name, or "" before SetModel.
func (p *Processor) Model() string {
	return p.model
}

// Process transcribes path with the current model and writes its output.
// Errors never escape: they are logged with the failing path and returned
// in the Result.
func (p *Processor) Process(ctx context.Context, path string) Result {
	res := Result{Path: path, Model: p.model}
	if p.engine == nil || p.model == "" {
		log.Warn("model not set, skipping", "path", path)
		res.Status = StatusSkipped
		res.Err = ErrNoModel
		return res
	}

	log.Info("processing", "path", path, "model", p.model)
	a, err := p.process(ctx, path)
	if err != nil {
		log.Error("processing failed", "path", path, "model", p.model, "err", err)
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.Status = StatusOK
	res.Artifact = a
	return res
}

func (p *Processor) process(ctx context.Context, path string) (output.Artifact, error) {
	started := p.now()
	segments, err := p.engine.Transcribe(ctx, path, p.cfg.Language)
	if err != nil {
		return output.Artifact{}, fmt.Errorf("transcribe: %w", err)
	}
	if err := core.Validate(segments); err != nil {
		return output.Artifact{}, fmt.Errorf("transcribe: %w", err)
	}
	log.Debug("transcribed", "path", path, "segments", len(segments), "took", p.now().Sub(started).Round(time.Millisecond))

	t := &core.Transcript{Source: path, Model: p.model, Language: p.cfg.Language, Segments: segments}
	if err := core.Chain(t, p.transformers...); err != nil {
		return output.Artifact{}, fmt.Errorf("transform: %w", err)
	}

	a, err := p.out.Create(path, t.Segments, p.model)
	if err != nil {
		return output.Artifact{}, err
	}

	if p.manifest {
		if err := p.record(t, a); err != nil {
			log.Warn("manifest not updated", "err", err)
		}
	}
	return a, nil
}

// record upserts the artifact into manifest.json in the output directory.
func (p *Processor) record(t *core.Transcript, a output.Artifact) error {
	dir := p.out.Config().OutputDir
	m, err := manifest.Load(dir)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	entry := core.NewManifestEntry(t, string(a.Format), relHref(dir, a.Path), p.now().UTC())
	if a.Media != "" {
		entry.Media = relHref(dir, a.Media)
	}
	m.Upsert(entry)

	if err := m.Save(dir); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func relHref(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
