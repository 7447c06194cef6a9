package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pfrederiksen/nhl-scores/internal/server"
	"github.com/pfrederiksen/nhl-scores/internal/storage"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	input          string
	addr           string
	allowedOrigins []string
}

func newServeCmd(a *app) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an archive over a read-only JSON API",
		Long: `Load an archive written by scrape and serve it over HTTP:

  GET /health
  GET /api/v1/seasons
  GET /api/v1/seasons/{year}
  GET /api/v1/summary?years=&type=&team=
  GET /api/v1/trends?years=&type=&team=&exclude=

The server shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", storage.DefaultPath, "Archive to serve")
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringSliceVar(&opts.allowedOrigins, "allowed-origin", nil, "CORS origin allowed to call the API (repeatable)")

	return cmd
}

func runServe(cmd *cobra.Command, a *app, opts *serveOptions) error {
	cfg := a.cfg.Serve
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = opts.input
	}
	if flags.Changed("addr") {
		cfg.Addr = opts.addr
	}
	if flags.Changed("allowed-origin") {
		cfg.AllowedOrigins = opts.allowedOrigins
	}

	store, err := storage.New(cfg.Input)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	archive, err := store.LoadArchive()
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}

	srv := server.New(archive, server.Options{
		Addr:            cfg.Addr,
		AllowedOrigins:  cfg.AllowedOrigins,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
