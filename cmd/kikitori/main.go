package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load() // optional .env in the working directory

	if err := newRoot().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newRoot() *cli.Command {
	return &cli.Command{
		Name:  "kikitori",
		Usage: "Batch-transcribe audio and video files into text and interactive HTML transcripts",
		Description: `
  _    _ _   _ _             _
 | |__(_) |_(_) |_ ___ _ _ _(_)
 | / /| | / / |  _/ _ \ '_|| |
 |_\_\|_|_\_\_|\__\___/_|  |_|

 Listen, write down, read along.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log",
				Usage:   "Log level: debug, info, warn, error",
				Value:   "info",
				Sources: env("LOG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			runCmd(),
			renderCmd(),
			compareCmd(),
			indexCmd(),
			serveCmd(),
		},
	}
}

// env returns the environment source for a flag, KIKITORI_{name}.
func env(name string) cli.ValueSourceChain {
	return cli.EnvVars("KIKITORI_" + name)
}
