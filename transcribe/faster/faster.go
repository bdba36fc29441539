// Package faster transcribes with faster-whisper through an embedded Python
// helper. One helper process serves an Engine for its whole life: it loads
// the model once, then answers one JSON line per request on stdout, in the
// same segment layout openai-whisper uses for its JSON output.
package faster

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/transcribe"
)

//go:embed assets/faster_whisper.py
var helperScript []byte

// ErrNotRunning is returned by Transcribe after the helper process exited.
var ErrNotRunning = errors.New("faster-whisper helper is not running")

// Engine owns one running helper process with the model loaded. Calls to
// Transcribe are serialized.
type Engine struct {
	model  string
	python string
	opts   transcribe.Options
	script string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr bytes.Buffer // read only after the process was waited on
}

// request is one stdin line sent to the helper.
type request struct {
	Audio    string `json:"audio"`
	Language string `json:"language,omitempty"`
}

// status carries the helper's ready and per-request error lines.
type status struct {
	Ready bool   `json:"ready"`
	Error string `json:"error"`
}

// New writes the helper script to a temporary file, starts the helper and
// waits until it has loaded model. Call Close to stop the helper and remove
// the script.
func New(model string, opts transcribe.Options) (*Engine, error) {
	script, err := writeScript()
	if err != nil {
		return nil, err
	}

	python := opts.Bin
	if python == "" {
		python = "python3"
	}
	e := &Engine{model: model, python: python, opts: opts, script: script}
	if err := e.start(); err != nil {
		os.Remove(script)
		return nil, fmt.Errorf("load model %s: %w", model, err)
	}
	return e, nil
}

func writeScript() (string, error) {
	f, err := os.CreateTemp("", "kikitori-faster-*.py")
	if err != nil {
		return "", fmt.Errorf("write helper script: %w", err)
	}
	if _, err := f.Write(helperScript); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write helper script: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write helper script: %w", err)
	}
	return f.Name(), nil
}

func (e *Engine) start() error {
	args := e.args()
	log.Debug("faster-whisper", "python", e.python, "args", strings.Join(args, " "))

	cmd := exec.Command(e.python, args...)
	cmd.Stderr = &e.stderr
	cmd.WaitDelay = 2 * time.Second
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("start helper: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("start helper: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start helper: %w", err)
	}
	e.cmd, e.stdin, e.stdout = cmd, stdin, bufio.NewReader(stdout)

	line, err := e.stdout.ReadBytes('\n')
	if err != nil {
		return e.exited()
	}
	var st status
	if err := json.Unmarshal(line, &st); err != nil || !st.Ready {
		e.stop(true)
		if st.Error != "" {
			return fmt.Errorf("faster-whisper failed: %s", st.Error)
		}
		return fmt.Errorf("unexpected helper greeting %q", strings.TrimSpace(string(line)))
	}
	return nil
}

// stop closes stdin so the helper leaves its loop, kills it when asked, and
// waits for it to exit.
func (e *Engine) stop(kill bool) error {
	if e.cmd == nil {
		return nil
	}
	cmd := e.cmd
	e.cmd = nil
	e.stdin.Close()
	if kill {
		cmd.Process.Kill()
	}
	return cmd.Wait()
}

// exited reaps a helper whose stdout closed and reports its stderr.
func (e *Engine) exited() error {
	e.stop(false)
	msg := strings.TrimSpace(e.stderr.String())
	if msg == "" {
		msg = "helper exited"
	}
	return fmt.Errorf("faster-whisper failed: %s", msg)
}

// Close stops the helper and removes the script.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.stop(false)
	return errors.Join(err, os.Remove(e.script))
}

// Transcribe implements transcribe.Engine. Cancelling ctx kills the helper;
// later calls return ErrNotRunning.
func (e *Engine) Transcribe(ctx context.Context, path, language string) ([]core.Segment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil {
		return nil, ErrNotRunning
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := json.Marshal(request{Audio: path, Language: transcribe.Language(language)})
	if err != nil {
		return nil, err
	}
	log.Debug("faster-whisper request", "audio", path)
	if _, err := e.stdin.Write(append(req, '\n')); err != nil {
		return nil, e.exited()
	}

	type reply struct {
		line []byte
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		line, err := e.stdout.ReadBytes('\n')
		ch <- reply{line, err}
	}()

	var r reply
	select {
	case <-ctx.Done():
		e.stop(true)
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.err != nil {
		return nil, e.exited()
	}

	var st status
	if err := json.Unmarshal(r.line, &st); err == nil && st.Error != "" {
		return nil, fmt.Errorf("faster-whisper failed: %s", st.Error)
	}
	doc, err := Decode(bytes.NewReader(r.line))
	if err != nil {
		return nil, err
	}
	return doc.Segments, nil
}

// args are the helper's startup arguments; the audio path and language
// travel per request.
func (e *Engine) args() []string {
	args := []string{
		e.script,
		"--model", e.model,
	}
	if e.opts.Device != "" {
		args = append(args, "--device", e.opts.Device)
	}
	if e.opts.ComputeType != "" {
		args = append(args, "--compute-type", e.opts.ComputeType)
	}
	if e.opts.BeamSize > 0 {
		args = append(args, "--beam-size", strconv.Itoa(e.opts.BeamSize))
	}
	if e.opts.VAD {
		args = append(args, "--vad")
	}
	return args
}

// Document is the helper's output; openai-whisper's JSON output has the same
// language and segments fields.
type Document struct {
	Language string    `json:"language"`
	Duration float64   `json:"duration,omitempty"`
	Text     string    `json:"text,omitempty"`
	Segments []segment `json:"segments"`
}

type segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Decoded is a decoded segments document.
type Decoded struct {
	Language string
	Segments []core.Segment
}

// Decode parses a segments document.
func Decode(r io.Reader) (*Decoded, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse faster-whisper output: %w", err)
	}
	out := &Decoded{
		Language: doc.Language,
		Segments: make([]core.Segment, 0, len(doc.Segments)),
	}
	for _, s := range doc.Segments {
		out.Segments = append(out.Segments, core.Segment{Text: s.Text, Start: s.Start, End: s.End})
	}
	return out, nil
}
