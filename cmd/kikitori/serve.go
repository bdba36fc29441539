package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sonnes/kikitori/server"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the output directory for browsing in a local web UI",
		Description: `Serves transcripts and media from --dir over HTTP. Media is served with
range requests so the viewer can seek; / lists the manifest entries.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Output directory to serve",
				Value:   "output",
				Sources: env("OUTPUT"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on",
				Value:   8080,
				Sources: env("PORT"),
			},
			&cli.StringSliceFlag{
				Name:    "allow-origin",
				Usage:   "Origins allowed to fetch transcripts cross-origin",
				Value:   []string{"*"},
				Sources: env("ALLOW_ORIGIN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			dir := cmd.String("dir")
			addr := fmt.Sprintf(":%d", cmd.Int("port"))
			srv := &http.Server{
				Addr:              addr,
				Handler:           (&server.Server{Dir: dir, AllowedOrigins: cmd.StringSlice("allow-origin")}).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("serving", "addr", "http://localhost"+addr, "dir", dir)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
