// Package metrics provides Prometheus metrics for the refresh pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshCycles counts refresh cycles by outcome (ok, store_error).
	RefreshCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cofounder_radar",
			Name:      "refresh_cycles_total",
			Help:      "Total number of refresh cycles",
		},
		[]string{"status"},
	)

	// RefreshDuration measures a full refresh cycle.
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cofounder_radar",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of refresh cycles in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// FeedFetches counts feed fetches by source and status (ok, error).
	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cofounder_radar",
			Name:      "feed_fetches_total",
			Help:      "Total number of feed fetches",
		},
		[]string{"source", "status"},
	)

	// ItemsChecked counts candidates considered per source.
	ItemsChecked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cofounder_radar",
			Name:      "items_checked_total",
			Help:      "Total number of feed items checked against the event store",
		},
		[]string{"source"},
	)

	// EventsCreated counts competitor events stored per source.
	EventsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cofounder_radar",
			Name:      "events_created_total",
			Help:      "Total number of competitor events stored",
		},
		[]string{"source"},
	)
)
