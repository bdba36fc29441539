package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/media"
	"github.com/sonnes/kikitori/output"
	"github.com/sonnes/kikitori/process"
	"github.com/sonnes/kikitori/render"
	"github.com/urfave/cli/v3"
)

func runCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Model to transcribe with; repeat to compare several (tiny, base, small, medium, large-v3)",
			Value:   []string{"small"},
			Sources: env("MODEL"),
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Directory of media files to transcribe",
			Value:   "input",
			Sources: env("INPUT"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Directory to write transcripts to",
			Value:   "output",
			Sources: env("OUTPUT"),
		},
		&cli.BoolFlag{
			Name:    "no-convert",
			Usage:   "Do not transcode .mov and .m4a inputs before transcription",
			Sources: env("NO_CONVERT"),
		},
	}
	flags = append(flags, renderFlags()...)
	flags = append(flags, backendFlags()...)
	flags = append(flags, transformFlags()...)

	return &cli.Command{
		Name:  "run",
		Usage: "Transcribe every file in the input directory with each model",
		Description: `Lists the regular files directly inside --input, converts .mov to .mp4
and .m4a to .mp3 (the original is replaced), transcribes each file with
every --model in turn and writes {name}_{model}.{ext} into --output.
HTML output copies the media file next to the page and refreshes
index.html. A failing file is reported and the batch continues.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			language := cmd.String("language")
			outDir := cmd.String("output")

			cfg, err := renderConfig(cmd, outDir, language)
			if err != nil {
				return err
			}
			if cfg.OutputFormat == render.FormatTerminal {
				return fmt.Errorf("terminal output is only available in the render command")
			}
			w, err := output.New(cfg)
			if err != nil {
				return err
			}

			transformers, err := newTransformers(cmd)
			if err != nil {
				return err
			}

			ff := media.NewFFmpeg(cmd.String("ffmpeg"))
			load, err := newApp(transcribeOptions(cmd), ff).loader(cmd.String("backend"))
			if err != nil {
				return err
			}

			opts := []process.Option{
				process.WithTransformers(transformers...),
				process.WithManifest(),
			}
			if !cmd.Bool("no-convert") {
				opts = append(opts, process.WithConverter(media.NewConverter(ff)))
			}
			p := process.New(process.Config{
				InputDir: cmd.String("input"),
				Language: language,
			}, w, opts...)

			sum, err := p.Batch(ctx, cmd.StringSlice("model"), load)
			writeSummary(os.Stdout, sum)
			if err != nil {
				return err
			}

			if cfg.OutputFormat == render.FormatHTML && sum.Count(process.StatusOK) > 0 {
				if _, err := writeIndex(outDir); err != nil {
					log.Warn("index not written", "err", err)
				}
			}

			if sum.Failed() {
				return fmt.Errorf("%d of %d files failed", sum.Count(process.StatusFailed), len(sum.Results))
			}
			return nil
		},
	}
}
