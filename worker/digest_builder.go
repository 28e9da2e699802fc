package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cofounder-radar/internal/ai"
	"cofounder-radar/internal/digest"
	"cofounder-radar/internal/model"
)

// EventLister is the read side of storage.Store used by the digest builder.
type EventLister interface {
	ListRecentEvents(ctx context.Context, limit int) ([]model.CompetitorEvent, error)
}

// DigestBuilder writes one Markdown market digest per UTC day into OutputDir.
type DigestBuilder struct {
	Store      EventLister
	Briefer    ai.Briefer // optional
	OutputDir  string
	Interval   time.Duration // how often to check whether today's digest exists
	TopN       int
	Title      string
	Preface    string
	Postscript string
	Language   string
	Now        func() time.Time
}

func (w *DigestBuilder) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Hour
	}
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return err
	}
	// run immediately then on interval
	w.logRun(w.RunOnce(ctx))

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.logRun(w.RunOnce(ctx))
		}
	}
}

func (w *DigestBuilder) logRun(path string, err error) {
	switch {
	case err != nil:
		slog.Error("digest: build failed", "error", err)
	case path != "":
		slog.Info("digest: published", "path", path)
	}
}

// RunOnce writes today's digest unless it already exists or there are no
// events. It returns the written path, or "" when nothing was written.
func (w *DigestBuilder) RunOnce(ctx context.Context) (string, error) {
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	path := filepath.Join(w.OutputDir, digest.Filename(now))
	if _, err := os.Stat(path); err == nil {
		return "", nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	events, err := w.Store.ListRecentEvents(ctx, w.TopN)
	if err != nil {
		return "", fmt.Errorf("digest: list events: %w", err)
	}
	if len(events) == 0 {
		return "", nil
	}
	d := digest.Compose(ctx, events, w.Briefer, digest.Options{
		Title:      w.Title,
		Language:   w.Language,
		TopN:       w.TopN,
		Preface:    w.Preface,
		Postscript: w.Postscript,
		Now:        now,
	})
	md, err := digest.Render(d)
	if err != nil {
		return "", fmt.Errorf("digest: render: %w", err)
	}
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
