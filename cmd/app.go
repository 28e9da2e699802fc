package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"cofounder-radar/internal/ai"
	"cofounder-radar/internal/alert"
	"cofounder-radar/internal/config"
	"cofounder-radar/internal/feed"
	"cofounder-radar/internal/fingerprint"
	"cofounder-radar/internal/storage"
	"cofounder-radar/worker"
)

// newRefresher wires the ingestion pipeline from configuration.
func newRefresher(cfg config.Config, store storage.Store) (*worker.Refresher, error) {
	sources, err := feed.Registry(cfg.Refresh)
	if err != nil {
		return nil, err
	}
	parser, err := feed.NewParser(cfg.Refresh.Parser)
	if err != nil {
		return nil, err
	}
	fp, err := fingerprint.New(cfg.Refresh.Fingerprint)
	if err != nil {
		return nil, err
	}
	return &worker.Refresher{
		Sources: sources,
		Fetcher: feed.NewFetcher(feed.FetcherOptions{
			UserAgent:    cfg.Refresh.UserAgent,
			Timeout:      config.Duration(cfg.Refresh.FetchTimeout),
			HostInterval: config.Duration(cfg.Refresh.HostInterval),
		}),
		Parser:      parser,
		Fingerprint: fp,
		Store:       store,
		Alerts:      alert.NewEmitter(store, cfg.Alerts.Title, cfg.Alerts.Link),
		MaxItems:    cfg.Refresh.MaxItems,
		Interval:    config.Duration(cfg.Refresh.Interval),
	}, nil
}

// newBriefer returns nil when no API key is configured.
func newBriefer(cfg config.OpenAIConfig) (ai.Briefer, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
		slog.Info("openai: model not set, using default", "model", model)
	}
	c, err := ai.NewOpenAI(ai.Config{APIKey: cfg.APIKey, Model: model, BaseURL: cfg.BaseURL})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	return store, nil
}
