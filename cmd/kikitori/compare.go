package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/compare"
	"github.com/sonnes/kikitori/media"
	"github.com/sonnes/kikitori/output"
	htmlrender "github.com/sonnes/kikitori/render/html"
	"github.com/urfave/cli/v3"
)

func compareCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "reference",
			Aliases:  []string{"r"},
			Usage:    "JSON object mapping media paths to their reference text",
			Required: true,
			Sources:  env("REFERENCE"),
		},
		&cli.StringSliceFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Models to compare, in report order",
			Value:   []string{"tiny", "base", "small", "medium"},
			Sources: env("MODEL"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Directory to write the reports to",
			Value:   "output",
			Sources: env("OUTPUT"),
		},
		&cli.BoolFlag{
			Name:  "html",
			Usage: "Also render each report as HTML",
		},
	}
	flags = append(flags, backendFlags()...)

	return &cli.Command{
		Name:  "compare",
		Usage: "Measure each model's recognition rate against reference texts",
		Description: `Transcribes every media file named in --reference with each --model and
writes {name}_compare.md: the transcription diffed against the reference per
character (~~missing~~, ` + "`extra`" + `), the recognition rate and the time taken.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			refs, err := compare.LoadReferences(cmd.String("reference"))
			if err != nil {
				return err
			}

			ff := media.NewFFmpeg(cmd.String("ffmpeg"))
			load, err := newApp(transcribeOptions(cmd), ff).loader(cmd.String("backend"))
			if err != nil {
				return err
			}

			outDir := cmd.String("output")
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			c := compare.New(load, cmd.String("language"))
			defer c.Close()

			models := cmd.StringSlice("model")
			for _, path := range refs.Paths() {
				if err := ctx.Err(); err != nil {
					return err
				}
				rep := c.Compare(ctx, path, refs[path], models)
				if href, err := filepath.Rel(outDir, path); err == nil {
					rep.Href = filepath.ToSlash(href)
				}
				if err := writeReport(outDir, rep, cmd.Bool("html")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// writeReport writes the Markdown report for rep, and its HTML rendering
// when withHTML is set. The HTML page carries the media player itself, so
// its Markdown source is written without the inline audio tag.
func writeReport(dir string, rep compare.Report, withHTML bool) error {
	var buf bytes.Buffer
	if err := compare.WriteMarkdown(&buf, rep); err != nil {
		return err
	}

	mdPath := filepath.Join(dir, compare.FileName(rep.Media))
	if err := os.WriteFile(mdPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}
	log.Info("report", "path", mdPath)

	if !withHTML {
		return nil
	}

	page := rep
	page.Href = ""
	buf.Reset()
	if err := compare.WriteMarkdown(&buf, page); err != nil {
		return err
	}

	htmlPath := strings.TrimSuffix(mdPath, ".md") + ".html"
	title := "Recognition comparison: " + filepath.Base(rep.Media)
	if err := output.WriteFileAtomic(htmlPath, func(bw *bufio.Writer) error {
		return htmlrender.New().RenderMarkdown(bw, title, rep.Href, buf.Bytes())
	}); err != nil {
		return fmt.Errorf("write %s: %w", htmlPath, err)
	}
	log.Info("report", "path", htmlPath)
	return nil
}
