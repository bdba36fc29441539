package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sonnes/kikitori/compact"
	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/media"
	"github.com/sonnes/kikitori/redact"
	"github.com/sonnes/kikitori/render"
	"github.com/sonnes/kikitori/transcribe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// runFlags parses args against flags and calls fn with the parsed command.
func runFlags(t *testing.T, flags []cli.Flag, args []string, fn func(cmd *cli.Command) error) error {
	t.Helper()
	cmd := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return fn(cmd)
		},
	}
	return cmd.Run(context.Background(), append([]string{"test"}, args...))
}

func TestLoaderUnknownBackend(t *testing.T) {
	a := newApp(transcribe.DefaultOptions(), media.NewFFmpeg(""))
	_, err := a.loader("openai")
	assert.ErrorContains(t, err, `unknown backend "openai" (available: faster, whispercpp)`)
}

func TestLoaderWhisperCPPMissingModel(t *testing.T) {
	opts := transcribe.DefaultOptions()
	opts.ModelDir = t.TempDir()
	load, err := newApp(opts, media.NewFFmpeg("")).loader("whispercpp")
	require.NoError(t, err)

	_, err = load("small")
	assert.ErrorContains(t, err, "ggml-small.bin")
}

func TestTransformersFromFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		kinds []string
	}{
		{"none", nil, nil},
		{"redact", []string{"--redact", "pii"}, []string{"redact"}},
		{"compact", []string{"--compact", "1.5s"}, []string{"compact"}},
		{"both", []string{"--redact", "all", "--compact", "0s"}, []string{"redact", "compact"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts []core.Transformer
			err := runFlags(t, transformFlags(), tt.args, func(cmd *cli.Command) error {
				var err error
				ts, err = newTransformers(cmd)
				return err
			})
			require.NoError(t, err)

			var kinds []string
			for _, tr := range ts {
				switch tr.(type) {
				case *redact.Redactor:
					kinds = append(kinds, "redact")
				case *compact.Compactor:
					kinds = append(kinds, "compact")
				}
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}

	t.Run("unknown redaction", func(t *testing.T) {
		err := runFlags(t, transformFlags(), []string{"--redact", "faces"}, func(cmd *cli.Command) error {
			_, err := newTransformers(cmd)
			return err
		})
		assert.ErrorContains(t, err, "unknown redaction kind")
	})
}

func TestRenderConfigFromFlags(t *testing.T) {
	var cfg render.Config
	err := runFlags(t, renderFlags(), []string{"--format", "txt", "--timestamp-format", "simple", "--no-timestamps"}, func(cmd *cli.Command) error {
		var err error
		cfg, err = renderConfig(cmd, "out", "ja")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, render.Config{
		OutputDir:         "out",
		IncludeTimestamps: false,
		TimestampFormat:   render.TimestampSimple,
		OutputFormat:      render.FormatText,
		Language:          "ja",
	}, cfg)

	err = runFlags(t, renderFlags(), []string{"--timestamp-format", "iso"}, func(cmd *cli.Command) error {
		_, err := renderConfig(cmd, "out", "")
		return err
	})
	assert.Error(t, err)
}

func TestTranscribeOptionsFromFlags(t *testing.T) {
	var opts transcribe.Options
	err := runFlags(t, backendFlags(), []string{"--device", "cuda", "--compute-type", "float16", "--beam-size", "3", "--no-vad", "--threads", "8"}, func(cmd *cli.Command) error {
		opts = transcribeOptions(cmd)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, transcribe.Options{
		Device:      "cuda",
		ComputeType: "float16",
		BeamSize:    3,
		VAD:         false,
		Threads:     8,
		ModelDir:    "models",
	}, opts)
}

func TestEnvOverridesFlagDefault(t *testing.T) {
	t.Setenv("KIKITORI_FORMAT", "markdown")
	var cfg render.Config
	err := runFlags(t, renderFlags(), nil, func(cmd *cli.Command) error {
		var err error
		cfg, err = renderConfig(cmd, "out", "")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, render.FormatMarkdown, cfg.OutputFormat)
}

func TestRenderCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "talk.mp3.json")
	require.NoError(t, os.WriteFile(src, []byte(`{
		"language": "en",
		"segments": [
			{"start": 0, "end": 1.5, "text": " Hello"},
			{"start": 1.6, "end": 3, "text": " world."}
		]
	}`), 0o644))
	out := filepath.Join(dir, "out")

	err := newRoot().Run(context.Background(), []string{
		"kikitori", "--log", "error", "render",
		"--file", src, "--model", "small", "--format", "text",
		"--timestamp-format", "simple", "--compact", "0.5s",
		"--output", out,
	})
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(out, "talk_small.txt"))
	require.NoError(t, err)
	assert.Equal(t, "[00:00] Hello world.\n", string(b))
}

func TestRunCommandRejectsTerminal(t *testing.T) {
	err := newRoot().Run(context.Background(), []string{
		"kikitori", "--log", "error", "run", "--format", "terminal", "--output", t.TempDir(),
	})
	assert.ErrorContains(t, err, "only available in the render command")
}

func TestCompactFlagDefaultOff(t *testing.T) {
	var gap time.Duration
	err := runFlags(t, transformFlags(), nil, func(cmd *cli.Command) error {
		gap = cmd.Duration("compact")
		return nil
	})
	require.NoError(t, err)
	assert.Less(t, gap, time.Duration(0))
}
