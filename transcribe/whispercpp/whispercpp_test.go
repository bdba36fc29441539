package whispercpp

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/transcribe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "systeminfo": "AVX = 1",
  "model": {"type": "small", "multilingual": true},
  "params": {"model": "models/ggml-small.bin", "language": "ja", "translate": false},
  "result": {"language": "ja"},
  "transcription": [
    {"timestamps": {"from": "00:00:00,000", "to": "00:00:02,480"}, "offsets": {"from": 0, "to": 2480}, "text": " こんにちは"},
    {"timestamps": {"from": "00:01:05,000", "to": "00:01:10,120"}, "offsets": {"from": 65000, "to": 70120}, "text": " hi"}
  ]
}`

func TestDecode(t *testing.T) {
	out, err := Decode(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, "ja", out.Language)
	assert.Equal(t, []core.Segment{
		{Text: " こんにちは", Start: 0, End: 2.48},
		{Text: " hi", Start: 65, End: 70.12},
	}, out.Segments)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("not json"))
	assert.ErrorContains(t, err, "parse whisper.cpp output")
}

func TestModelPath(t *testing.T) {
	assert.Equal(t, filepath.Join("models", "ggml-small.bin"), ModelPath("small", ""))
	assert.Equal(t, filepath.Join("/opt/m", "ggml-large-v3.bin"), ModelPath("large-v3", "/opt/m"))
	assert.Equal(t, "custom.bin", ModelPath("custom.bin", "/opt/m"))
	assert.Equal(t, filepath.Join("x", "y"), ModelPath(filepath.Join("x", "y"), "/opt/m"))
}

func TestNewMissingModel(t *testing.T) {
	opts := transcribe.DefaultOptions()
	opts.ModelDir = t.TempDir()
	_, err := New("small", opts, nil)
	assert.ErrorContains(t, err, `whisper.cpp model "small"`)
}

func TestArgs(t *testing.T) {
	e := &Engine{model: "m.bin", opts: transcribe.Options{BeamSize: 5, Threads: 4, Device: "cpu"}}

	args := e.args("in.wav", "/tmp/out", "ja")
	assert.Equal(t, []string{"-m", "m.bin", "-f", "in.wav", "-oj", "-of", "/tmp/out", "-np", "-l", "ja", "-bs", "5", "-t", "4", "-ng"}, args)

	e.opts = transcribe.Options{Device: "cuda"}
	args = e.args("in.wav", "/tmp/out", "auto")
	assert.Equal(t, []string{"-m", "m.bin", "-f", "in.wav", "-oj", "-of", "/tmp/out", "-np", "-l", "auto"}, args)
}

type fakeExtractor struct{}

func (fakeExtractor) ExtractWAV(_ context.Context, in, dir string) (string, error) {
	out := filepath.Join(dir, "audio.wav")
	return out, os.WriteFile(out, []byte("RIFF"), 0o644)
}

func TestTranscribeRunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in")
	}
	dir := t.TempDir()
	model := filepath.Join(dir, "ggml-small.bin")
	require.NoError(t, os.WriteFile(model, nil, 0o644))

	script := "#!/bin/sh\n" +
		"while [ $# -gt 0 ]; do\n" +
		"  if [ \"$1\" = \"-of\" ]; then out=\"$2\"; fi\n" +
		"  shift\n" +
		"done\n" +
		"cat > \"$out.json\" <<'JSON'\n" + sampleJSON + "\nJSON\n"
	bin := filepath.Join(dir, "whisper-cli")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	opts := transcribe.DefaultOptions()
	opts.Bin = bin
	opts.ModelDir = dir
	e, err := New("small", opts, fakeExtractor{})
	require.NoError(t, err)

	segs, err := e.Transcribe(context.Background(), "/in/talk.mp3", "ja")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, 65.0, segs[1].Start)
}
