package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cofounder-radar/internal/config"
	"cofounder-radar/internal/server"
	"cofounder-radar/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the periodic workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		refresher, err := newRefresher(cfg, store)
		if err != nil {
			return err
		}
		briefer, err := newBriefer(cfg.OpenAI)
		if err != nil {
			return err
		}

		ws := []worker.Worker{}
		if refresher.Interval > 0 {
			slog.Info("starting refresher", "interval", refresher.Interval, "sources", len(refresher.Sources))
			ws = append(ws, refresher)
		}
		if d := config.Duration(cfg.Digest.Interval); d > 0 {
			slog.Info("starting digest builder", "interval", d, "dir", cfg.Digest.OutputDir)
			ws = append(ws, &worker.DigestBuilder{
				Store:      store,
				Briefer:    briefer,
				OutputDir:  cfg.Digest.OutputDir,
				Interval:   d,
				TopN:       cfg.Digest.TopN,
				Title:      cfg.Digest.Title,
				Preface:    cfg.Digest.Preface,
				Postscript: cfg.Digest.Postscript,
				Language:   cfg.OpenAI.Language,
			})
		}
		mgr := worker.NewManager(ws...)

		e := server.New(server.Dependencies{
			Store:     store,
			Refresher: refresher,
			Briefer:   briefer,
			Language:  cfg.OpenAI.Language,
			AlertLink: cfg.Alerts.Link,
		})
		srv := &http.Server{
			Addr:         cfg.HTTP.Addr,
			ReadTimeout:  config.Duration(cfg.HTTP.ReadTimeout),
			WriteTimeout: config.Duration(cfg.HTTP.WriteTimeout),
		}

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		errc := make(chan error, 2)
		go func() { errc <- mgr.Start(ctx) }()
		go func() {
			err := server.Start(ctx, e, srv)
			if err != nil {
				cancel()
			}
			errc <- err
		}()
		return errors.Join(<-errc, <-errc)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
