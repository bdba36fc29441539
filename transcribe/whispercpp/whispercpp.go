// Package whispercpp transcribes with the whisper.cpp command line tool. The
// input is first reduced to the mono 16 kHz WAV whisper.cpp expects, then
// whisper-cli writes its JSON output which is decoded into segments.
package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/transcribe"
)

// WAVExtractor produces the 16 kHz mono WAV whisper.cpp reads.
type WAVExtractor interface {
	ExtractWAV(ctx context.Context, in, dir string) (string, error)
}

// Engine runs whisper-cli for each file.
type Engine struct {
	bin     string
	model   string // resolved model file path
	opts    transcribe.Options
	audio   WAVExtractor
	tempDir string // parent for per-file scratch directories; "" means os.TempDir
}

// New resolves model against opts.ModelDir and returns an Engine. The model
// may be a size name ("small" becomes ggml-small.bin) or a path to a .bin
// file.
func New(model string, opts transcribe.Options, audio WAVExtractor) (*Engine, error) {
	path := ModelPath(model, opts.ModelDir)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("whisper.cpp model %q: %w", model, err)
	}
	bin := opts.Bin
	if bin == "" {
		bin = "whisper-cli"
	}
	return &Engine{bin: bin, model: path, opts: opts, audio: audio}, nil
}

// ModelPath maps a model identifier to a ggml model file.
func ModelPath(model, dir string) string {
	if strings.HasSuffix(model, ".bin") || strings.ContainsRune(model, filepath.Separator) {
		return model
	}
	if dir == "" {
		dir = "models"
	}
	return filepath.Join(dir, "ggml-"+model+".bin")
}

// Transcribe implements transcribe.Engine.
func (e *Engine) Transcribe(ctx context.Context, path, language string) ([]core.Segment, error) {
	scratch, err := os.MkdirTemp(e.tempDir, "kikitori-whispercpp-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(scratch)

	wav, err := e.audio.ExtractWAV(ctx, path, scratch)
	if err != nil {
		return nil, err
	}

	prefix := filepath.Join(scratch, "out")
	args := e.args(wav, prefix, language)
	log.Debug("whisper.cpp", "bin", e.bin, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, e.bin, args...)
	if b, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	f, err := os.Open(prefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper.cpp output: %w", err)
	}
	defer f.Close()

	out, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return out.Segments, nil
}

func (e *Engine) args(wav, prefix, language string) []string {
	args := []string{
		"-m", e.model,
		"-f", wav,
		"-oj",
		"-of", prefix,
		"-np",
	}
	if lang := transcribe.Language(language); lang != "" {
		args = append(args, "-l", lang)
	} else {
		args = append(args, "-l", "auto")
	}
	if e.opts.BeamSize > 0 {
		args = append(args, "-bs", strconv.Itoa(e.opts.BeamSize))
	}
	if e.opts.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(e.opts.Threads))
	}
	if e.opts.Device == "cpu" {
		args = append(args, "-ng")
	}
	return args
}

// Output is whisper.cpp's -oj document, reduced to the fields used here.
type Output struct {
	Model struct {
		Type string `json:"type"`
	} `json:"model"`
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Decoded is a decoded whisper.cpp document.
type Decoded struct {
	Language string
	Segments []core.Segment
}

// Decode parses whisper.cpp JSON output. Offsets are converted from
// milliseconds to seconds; text is kept as emitted (renderers trim it).
func Decode(r io.Reader) (*Decoded, error) {
	var doc Output
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse whisper.cpp output: %w", err)
	}
	out := &Decoded{
		Language: doc.Result.Language,
		Segments: make([]core.Segment, 0, len(doc.Transcription)),
	}
	for _, t := range doc.Transcription {
		out.Segments = append(out.Segments, core.Segment{
			Text:  t.Text,
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
		})
	}
	return out, nil
}
