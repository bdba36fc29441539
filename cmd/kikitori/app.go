package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sonnes/kikitori/compact"
	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/media"
	"github.com/sonnes/kikitori/process"
	"github.com/sonnes/kikitori/redact"
	"github.com/sonnes/kikitori/render"
	"github.com/sonnes/kikitori/transcribe"
	"github.com/sonnes/kikitori/transcribe/faster"
	"github.com/sonnes/kikitori/transcribe/whispercpp"
	"github.com/urfave/cli/v3"
)

// app holds the backend registry used by CLI commands.
type app struct {
	backends map[string]func(model string) (transcribe.Engine, error)
}

func newApp(opts transcribe.Options, ff *media.FFmpeg) *app {
	return &app{
		backends: map[string]func(string) (transcribe.Engine, error){
			"faster": func(model string) (transcribe.Engine, error) {
				e, err := faster.New(model, opts)
				if err != nil {
					return nil, err
				}
				return e, nil
			},
			"whispercpp": func(model string) (transcribe.Engine, error) {
				e, err := whispercpp.New(model, opts, ff)
				if err != nil {
					return nil, err
				}
				return e, nil
			},
		},
	}
}

func (a *app) loader(backend string) (process.Loader, error) {
	fn, ok := a.backends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (available: %s)", backend, strings.Join(a.names(), ", "))
	}
	return fn, nil
}

func (a *app) names() []string {
	names := make([]string, 0, len(a.backends))
	for n := range a.backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func backendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "backend",
			Aliases: []string{"b"},
			Usage:   "Transcription backend: faster, whispercpp",
			Value:   "faster",
			Sources: env("BACKEND"),
		},
		&cli.StringFlag{
			Name:    "language",
			Aliases: []string{"l"},
			Usage:   "Spoken language code, or auto to detect",
			Value:   "ja",
			Sources: env("LANGUAGE"),
		},
		&cli.StringFlag{
			Name:    "device",
			Usage:   "Inference device: cpu, cuda, auto",
			Value:   "cpu",
			Sources: env("DEVICE"),
		},
		&cli.StringFlag{
			Name:    "compute-type",
			Usage:   "faster-whisper compute type: int8, float16, int8_float16",
			Value:   "int8",
			Sources: env("COMPUTE_TYPE"),
		},
		&cli.IntFlag{
			Name:    "beam-size",
			Usage:   "Decoding beam size",
			Value:   5,
			Sources: env("BEAM_SIZE"),
		},
		&cli.BoolFlag{
			Name:    "no-vad",
			Usage:   "Disable the voice activity filter",
			Sources: env("NO_VAD"),
		},
		&cli.IntFlag{
			Name:    "threads",
			Usage:   "whisper.cpp thread count, 0 for its default",
			Sources: env("THREADS"),
		},
		&cli.StringFlag{
			Name:    "bin",
			Usage:   "Backend executable (python3 for faster, whisper-cli for whispercpp)",
			Sources: env("BIN"),
		},
		&cli.StringFlag{
			Name:    "model-dir",
			Usage:   "Directory holding ggml model files for whispercpp",
			Value:   "models",
			Sources: env("MODEL_DIR"),
		},
		&cli.StringFlag{
			Name:    "ffmpeg",
			Usage:   "ffmpeg executable",
			Value:   "ffmpeg",
			Sources: env("FFMPEG"),
		},
	}
}

// transcribeOptions folds the backend flags into transcribe.Options.
func transcribeOptions(cmd *cli.Command) transcribe.Options {
	opts := transcribe.DefaultOptions()
	opts.Device = cmd.String("device")
	opts.ComputeType = cmd.String("compute-type")
	opts.BeamSize = int(cmd.Int("beam-size"))
	opts.VAD = !cmd.Bool("no-vad")
	opts.Threads = int(cmd.Int("threads"))
	opts.Bin = cmd.String("bin")
	opts.ModelDir = cmd.String("model-dir")
	return opts
}

func transformFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "redact",
			Usage:   "Redact segment text: pii, secrets, all. Example: --redact=pii,secrets",
			Sources: env("REDACT"),
		},
		&cli.DurationFlag{
			Name:    "compact",
			Usage:   "Merge adjacent segments separated by at most this much silence, e.g. 1.5s",
			Value:   -1,
			Sources: env("COMPACT"),
		},
		&cli.DurationFlag{
			Name:    "compact-max",
			Usage:   "Longest merged segment when compacting",
			Value:   30 * time.Second,
			Sources: env("COMPACT_MAX"),
		},
	}
}

// newTransformers builds the optional transformer chain from CLI flags:
// redaction first, then compaction.
func newTransformers(cmd *cli.Command) ([]core.Transformer, error) {
	var ts []core.Transformer

	if v := cmd.String("redact"); v != "" {
		cfg, err := redact.ParseKinds(v)
		if err != nil {
			return nil, err
		}
		if r := redact.New(cfg); r.Enabled() {
			ts = append(ts, r)
		}
	}

	if gap := cmd.Duration("compact"); gap >= 0 {
		ts = append(ts, compact.New(compact.Config{
			Gap:         gap,
			MaxDuration: cmd.Duration("compact-max"),
			DropEmpty:   true,
		}))
	}

	return ts, nil
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, html, markdown, json (terminal in render)",
			Value:   "html",
			Sources: env("FORMAT"),
		},
		&cli.BoolFlag{
			Name:    "no-timestamps",
			Usage:   "Write text lines without timestamps",
			Sources: env("NO_TIMESTAMPS"),
		},
		&cli.StringFlag{
			Name:    "timestamp-format",
			Usage:   "Timestamp style for text output: full, simple",
			Value:   "full",
			Sources: env("TIMESTAMP_FORMAT"),
		},
	}
}

// renderConfig folds the render flags into a render.Config. language is the
// transcription language, used for the html lang attribute.
func renderConfig(cmd *cli.Command, outputDir, language string) (render.Config, error) {
	cfg := render.DefaultConfig()
	cfg.OutputDir = outputDir
	cfg.IncludeTimestamps = !cmd.Bool("no-timestamps")
	cfg.Language = language

	tf, err := render.ParseTimestampFormat(cmd.String("timestamp-format"))
	if err != nil {
		return render.Config{}, err
	}
	cfg.TimestampFormat = tf

	f, err := render.ParseFormat(cmd.String("format"))
	if err != nil {
		return render.Config{}, err
	}
	cfg.OutputFormat = f
	return cfg, nil
}
