package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sonnes/kikitori/core"
	"github.com/sonnes/kikitori/output"
	"github.com/sonnes/kikitori/reader"
	"github.com/urfave/cli/v3"
)

func renderCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Usage:    "Saved transcript: kikitori json, openai-whisper json or whisper.cpp json",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "media",
			Usage: "Media file the transcript belongs to, when the file does not record it",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model name for output naming, overrides the file's model",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write {name}[_{model}].{ext} into this directory instead of stdout",
		},
	}
	flags = append(flags, renderFlags()...)
	flags = append(flags, transformFlags()...)

	return &cli.Command{
		Name:  "render",
		Usage: "Render a saved transcript in another format",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			t, err := reader.JSON{Media: cmd.String("media")}.ReadFile(cmd.String("file"))
			if err != nil {
				return err
			}
			if m := cmd.String("model"); m != "" {
				t.Model = m
			}

			transformers, err := newTransformers(cmd)
			if err != nil {
				return err
			}
			if err := core.Chain(t, transformers...); err != nil {
				return fmt.Errorf("transform: %w", err)
			}

			cfg, err := renderConfig(cmd, cmd.String("output"), t.Language)
			if err != nil {
				return err
			}

			if cfg.OutputDir != "" {
				w, err := output.New(cfg)
				if err != nil {
					return err
				}
				_, err = w.Create(t.Source, t.Segments, t.Model)
				return err
			}

			rnd, err := output.NewRenderer(cfg, cfg.OutputFormat)
			if err != nil {
				return err
			}
			if err := rnd.Render(os.Stdout, t); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			return nil
		},
	}
}
