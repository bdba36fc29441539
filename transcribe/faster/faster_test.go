package faster

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/transcribe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	in := `{"language": "ja", "duration": 12.5, "segments": [
		{"start": 0.0, "end": 2.48, "text": " こんにちは"},
		{"start": 2.48, "end": 5.0, "text": " hi"}
	]}`
	out, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "ja", out.Language)
	assert.Equal(t, []core.Segment{
		{Text: " こんにちは", Start: 0, End: 2.48},
		{Text: " hi", Start: 2.48, End: 5},
	}, out.Segments)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("{"))
	assert.ErrorContains(t, err, "parse faster-whisper output")
}

// fakePython writes a shell stand-in for the interpreter. Every start is
// appended to spawns.log and every request line to requests.log, both in dir.
func fakePython(t *testing.T, body string) (bin, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in")
	}
	dir = t.TempDir()
	bin = filepath.Join(dir, "python3")
	script := "#!/bin/sh\n" +
		"echo \"$@\" >> '" + filepath.Join(dir, "spawns.log") + "'\n" +
		"REQUESTS='" + filepath.Join(dir, "requests.log") + "'\n" +
		body
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, dir
}

const serveOK = `echo '{"ready":true}'
while IFS= read -r line; do
  echo "$line" >> "$REQUESTS"
  case "$line" in
    *bad.mp3*) echo '{"error":"cannot decode bad.mp3"}' ;;
    *) echo '{"language":"en","segments":[{"start":1.5,"end":3,"text":" ok"}]}' ;;
  esac
done
`

func newFake(t *testing.T, body string) (*Engine, string) {
	t.Helper()
	bin, dir := fakePython(t, body)
	opts := transcribe.DefaultOptions()
	opts.Bin = bin
	e, err := New("small", opts)
	require.NoError(t, err)
	return e, dir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func TestNewWritesHelperScript(t *testing.T) {
	e, _ := newFake(t, serveOK)

	b, err := os.ReadFile(e.script)
	require.NoError(t, err)
	assert.Equal(t, helperScript, b)
	assert.Contains(t, string(b), "from faster_whisper import WhisperModel")

	require.NoError(t, e.Close())
	assert.NoFileExists(t, e.script)
}

func TestArgs(t *testing.T) {
	e := &Engine{model: "small", script: "/tmp/h.py", opts: transcribe.DefaultOptions()}
	assert.Equal(t, []string{
		"/tmp/h.py", "--model", "small",
		"--device", "cpu", "--compute-type", "int8",
		"--beam-size", "5", "--vad",
	}, e.args())

	e.opts = transcribe.Options{}
	assert.Equal(t, []string{"/tmp/h.py", "--model", "small"}, e.args())
}

func TestHelperLoadsModelOnce(t *testing.T) {
	e, dir := newFake(t, serveOK)

	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		segs, err := e.Transcribe(context.Background(), name, "ja")
		require.NoError(t, err, name)
		assert.Equal(t, []core.Segment{{Text: " ok", Start: 1.5, End: 3}}, segs)
	}
	require.NoError(t, e.Close())

	spawns := readLines(t, filepath.Join(dir, "spawns.log"))
	require.Len(t, spawns, 1)
	assert.Contains(t, spawns[0], "--model small")
	assert.NotContains(t, spawns[0], "--audio")

	assert.Equal(t, []string{
		`{"audio":"a.mp3","language":"ja"}`,
		`{"audio":"b.mp3","language":"ja"}`,
		`{"audio":"c.mp3","language":"ja"}`,
	}, readLines(t, filepath.Join(dir, "requests.log")))
}

func TestTranscribeAutoLanguageOmitted(t *testing.T) {
	e, dir := newFake(t, serveOK)
	_, err := e.Transcribe(context.Background(), "talk.mp3", "auto")
	require.NoError(t, err)
	require.NoError(t, e.Close())

	assert.Equal(t, []string{`{"audio":"talk.mp3"}`}, readLines(t, filepath.Join(dir, "requests.log")))
}

func TestTranscribePerFileErrorKeepsHelper(t *testing.T) {
	e, dir := newFake(t, serveOK)
	defer e.Close()

	_, err := e.Transcribe(context.Background(), "bad.mp3", "en")
	assert.EqualError(t, err, "faster-whisper failed: cannot decode bad.mp3")

	segs, err := e.Transcribe(context.Background(), "good.mp3", "en")
	require.NoError(t, err)
	assert.Len(t, segs, 1)
	assert.Len(t, readLines(t, filepath.Join(dir, "spawns.log")), 1)
}

func TestNewHelperFailure(t *testing.T) {
	bin, _ := fakePython(t, "echo 'no module named faster_whisper' >&2\nexit 2\n")
	opts := transcribe.DefaultOptions()
	opts.Bin = bin

	_, err := New("small", opts)
	assert.ErrorContains(t, err, "load model small: faster-whisper failed: no module named faster_whisper")
}

func TestTranscribeHelperCrash(t *testing.T) {
	e, _ := newFake(t, "echo '{\"ready\":true}'\nread line\necho 'CUDA out of memory' >&2\nexit 3\n")
	defer e.Close()

	_, err := e.Transcribe(context.Background(), "talk.mp3", "en")
	assert.ErrorContains(t, err, "faster-whisper failed: CUDA out of memory")

	_, err = e.Transcribe(context.Background(), "next.mp3", "en")
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestTranscribeCancelKillsHelper(t *testing.T) {
	e, _ := newFake(t, "echo '{\"ready\":true}'\nread line\nexec sleep 30\n")
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := e.Transcribe(ctx, "talk.mp3", "en")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)

	_, err = e.Transcribe(context.Background(), "next.mp3", "en")
	assert.ErrorIs(t, err, ErrNotRunning)
}
