package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/transcribe"
)

// Converter prepares an input file for transcription, returning the path to
// transcribe. It may replace the file on disk.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// Loader loads the engine for a model name.
type Loader func(model string) (transcribe.Engine, error)

// Summary collects the results of a batch run.
type Summary struct {
	Results []Result
}

// Count returns the number of results with status s.
func (s Summary) Count(st Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == st {
			n++
		}
	}
	return n
}

// Failed reports whether any file failed.
func (s Summary) Failed() bool {
	return s.Count(StatusFailed) > 0
}

// Inputs lists the regular files directly inside the input directory,
// sorted by name. Subdirectories are not descended into.
func (p *Processor) Inputs() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		paths = append(paths, filepath.Join(p.cfg.InputDir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Batch processes every input file with every model, models in the given
// order. A model that fails to load is reported once and its files are
// skipped; a failing file never stops the batch. The input directory is
// listed again for each model because conversion replaces files. Only a
// missing input directory or a cancelled context end the batch early.
func (p *Processor) Batch(ctx context.Context, models []string, load Loader) (Summary, error) {
	var sum Summary
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		log.Info("loading model", "model", model)
		engine, loadErr := load(model)
		if loadErr != nil {
			log.Error("load model failed", "model", model, "err", loadErr)
			engine = nil
		}
		p.SetModel(model, engine)

		inputs, err := p.Inputs()
		if err != nil {
			closeEngine(engine)
			return sum, err
		}

		for _, path := range inputs {
			if err := ctx.Err(); err != nil {
				closeEngine(engine)
				return sum, err
			}
			if loadErr != nil {
				sum.Results = append(sum.Results, Result{
					Path:   path,
					Model:  model,
					Status: StatusSkipped,
					Err:    fmt.Errorf("%w: %v", ErrNoModel, loadErr),
				})
				continue
			}
			sum.Results = append(sum.Results, p.processInput(ctx, path))
		}
		closeEngine(engine)
	}
	p.SetModel("", nil)
	return sum, nil
}

func (p *Processor) processInput(ctx context.Context, path string) Result {
	if p.conv != nil {
		converted, err := p.conv.Convert(ctx, path)
		if err != nil {
			log.Error("processing failed", "path", path, "model", p.model, "err", err)
			return Result{Path: path, Model: p.model, Status: StatusFailed, Err: err}
		}
		path = converted
	}
	return p.Process(ctx, path)
}

func closeEngine(e transcribe.Engine) {
	if c, ok := e.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn("close engine", "err", err)
		}
	}
}
