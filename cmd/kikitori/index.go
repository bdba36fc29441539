package main

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/manifest"
	"github.com/sonnes/kikitori/output"
	htmlrender "github.com/sonnes/kikitori/render/html"
	"github.com/urfave/cli/v3"
)

func indexCmd() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Generate an index page from the manifest",
		Description: `Reads manifest.json from the given directory, drops entries whose
transcript file no longer exists, and writes index.html alongside it.
The run command does this automatically for html output.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory containing manifest.json (writes index.html there)",
				Value:   "output",
				Sources: env("OUTPUT"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			n, err := writeIndex(cmd.String("dir"))
			if err != nil {
				return err
			}
			fmt.Printf("Indexed %d transcripts\n", n)
			return nil
		},
	}
}

// writeIndex prunes the manifest in dir and renders index.html from it.
// It returns the number of entries listed.
func writeIndex(dir string) (int, error) {
	m, err := manifest.Load(dir)
	if err != nil {
		return 0, fmt.Errorf("read manifest: %w", err)
	}

	if removed := m.Prune(dir); removed > 0 {
		log.Info("pruned manifest", "removed", removed)
		if err := m.Save(dir); err != nil {
			return 0, fmt.Errorf("write manifest: %w", err)
		}
	}

	outPath := filepath.Join(dir, "index.html")
	if err := output.WriteFileAtomic(outPath, func(bw *bufio.Writer) error {
		return htmlrender.New().RenderIndex(bw, m.Entries)
	}); err != nil {
		return 0, fmt.Errorf("write %s: %w", outPath, err)
	}
	log.Info("index", "path", outPath, "entries", len(m.Entries))
	return len(m.Entries), nil
}
