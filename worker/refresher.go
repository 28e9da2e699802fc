package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cofounder-radar/internal/feed"
	"cofounder-radar/internal/fingerprint"
	"cofounder-radar/internal/metrics"
	"cofounder-radar/internal/model"

	"golang.org/x/sync/singleflight"
)

// FeedFetcher retrieves a raw feed payload for a source.
type FeedFetcher interface {
	Fetch(ctx context.Context, src feed.Source) (string, error)
}

// EventStore is the part of storage.Store the refresher writes to.
type EventStore interface {
	InsertEvent(ctx context.Context, ev model.CompetitorEvent) (bool, error)
	Ping(ctx context.Context) error
}

// AlertEmitter raises the end-of-cycle summary alert.
type AlertEmitter interface {
	Emit(ctx context.Context, created int) (bool, error)
}

// Refresher polls the feed registry and stores unseen items as competitor
// events. Sources are processed sequentially; a failing feed is recorded in
// the report and skipped, while a store failure aborts the cycle.
type Refresher struct {
	Sources     []feed.Source
	Fetcher     FeedFetcher
	Parser      feed.Parser
	Fingerprint fingerprint.Func
	Store       EventStore
	Alerts      AlertEmitter
	MaxItems    int           // per feed, defaults to 15
	Interval    time.Duration // used by Start
	Now         func() time.Time

	group singleflight.Group
}

func (w *Refresher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 30 * time.Minute
	}

	// initial run
	w.runCycle(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runCycle(ctx)
		}
	}
}

// runCycle runs a periodic cycle under ctx, so shutdown interrupts it.
func (w *Refresher) runCycle(ctx context.Context) {
	r, err := w.coalesce(ctx, ctx)
	if err != nil {
		if ctx.Err() != nil {
			slog.Info("refresher: cycle interrupted by shutdown")
			return
		}
		slog.Error("refresher: cycle failed", "error", err)
		return
	}
	slog.Info("refresher: cycle completed", "created", r.Created, "checked", r.Checked, "errors", len(r.Errors))
}

// Refresh runs one cycle on behalf of an on-demand caller. Callers that
// overlap an in-flight cycle wait for it and share its report instead of
// starting another. A cycle started here outlives ctx; ctx only bounds the wait.
func (w *Refresher) Refresh(ctx context.Context) (model.RefreshReport, error) {
	return w.coalesce(ctx, context.WithoutCancel(ctx))
}

// coalesce runs RunOnce(runCtx) unless a cycle is already in flight, and
// stops waiting when ctx is done.
func (w *Refresher) coalesce(ctx, runCtx context.Context) (model.RefreshReport, error) {
	ch := w.group.DoChan("refresh", func() (any, error) {
		return w.RunOnce(runCtx)
	})
	select {
	case res := <-ch:
		if res.Shared {
			slog.Debug("refresher: joined in-flight cycle")
		}
		r, _ := res.Val.(model.RefreshReport)
		return r, res.Err
	case <-ctx.Done():
		return model.RefreshReport{Errors: []model.FeedError{}}, ctx.Err()
	}
}

// RunOnce executes a single refresh cycle without coalescing.
func (w *Refresher) RunOnce(ctx context.Context) (model.RefreshReport, error) {
	start := time.Now()
	defer func() { metrics.RefreshDuration.Observe(time.Since(start).Seconds()) }()

	report := model.RefreshReport{Errors: []model.FeedError{}}
	if err := w.Store.Ping(ctx); err != nil {
		metrics.RefreshCycles.WithLabelValues("store_error").Inc()
		return report, fmt.Errorf("refresher: store unavailable: %w", err)
	}
	for _, src := range w.Sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		checked, created, err := w.refreshSource(ctx, src)
		report.Checked += checked
		report.Created += created
		if err == nil {
			continue
		}
		var fe feedError
		if errors.As(err, &fe) {
			slog.Warn("refresher: feed skipped", "source", src.Name, "error", fe.err)
			report.Errors = append(report.Errors, model.FeedError{Source: src.Name, Error: errMessage(fe.err)})
			continue
		}
		metrics.RefreshCycles.WithLabelValues("store_error").Inc()
		return report, err
	}
	if _, err := w.Alerts.Emit(ctx, report.Created); err != nil {
		slog.Error("refresher: alert not created", "created", report.Created, "error", err)
	}
	metrics.RefreshCycles.WithLabelValues("ok").Inc()
	return report, nil
}

// feedError marks failures that only skip the current source.
type feedError struct{ err error }

func (e feedError) Error() string { return e.err.Error() }

func (w *Refresher) refreshSource(ctx context.Context, src feed.Source) (checked, created int, err error) {
	raw, err := w.Fetcher.Fetch(ctx, src)
	if err != nil {
		metrics.FeedFetches.WithLabelValues(src.Name, "error").Inc()
		return 0, 0, feedError{err}
	}
	metrics.FeedFetches.WithLabelValues(src.Name, "ok").Inc()

	limit := w.maxItems()
	items, err := w.Parser.Parse(raw, limit)
	if err != nil {
		return 0, 0, feedError{fmt.Errorf("parse: %w", err)}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	for _, it := range items {
		checked++
		c := feed.Normalize(src, it, w.now())
		ev := model.CompetitorEvent{
			Source:         c.Source,
			CompetitorName: c.Source,
			Title:          c.Title,
			URL:            c.URL,
			Summary:        c.Summary,
			PublishedAt:    c.PublishedAt,
			Fingerprint:    w.fingerprint(fingerprint.Key(c.Source, c.Title, c.URL, c.PublishedAt)),
		}
		ok, err := w.Store.InsertEvent(ctx, ev)
		if err != nil {
			return checked, created, fmt.Errorf("refresher: store event from %s: %w", src.Name, err)
		}
		if ok {
			created++
		}
	}
	metrics.ItemsChecked.WithLabelValues(src.Name).Add(float64(checked))
	metrics.EventsCreated.WithLabelValues(src.Name).Add(float64(created))
	slog.Info("refresher: completed for source", "source", src.Name, "checked", checked, "created", created)
	return checked, created, nil
}

func (w *Refresher) maxItems() int {
	if w.MaxItems <= 0 {
		return 15
	}
	return w.MaxItems
}

func (w *Refresher) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *Refresher) fingerprint(key string) string {
	if w.Fingerprint != nil {
		return w.Fingerprint(key)
	}
	return fingerprint.Hash32(key)
}

func errMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "fetch_failed"
}
