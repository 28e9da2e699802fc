package storage

import (
	"context"
	"errors"

	"cofounder-radar/internal/model"
)

// ErrNotFound is returned when a lookup by key matches nothing.
var ErrNotFound = errors.New("storage: not found")

const (
	// DefaultListLimit is used when a caller passes a non-positive limit.
	DefaultListLimit = 20
	// MaxListLimit caps every list query.
	MaxListLimit = 100
)

// Store persists competitor events, alerts and feedback.
type Store interface {
	// InsertEvent stores ev unless an event with the same fingerprint exists.
	// It reports whether ev was stored; the check and write are atomic.
	InsertEvent(ctx context.Context, ev model.CompetitorEvent) (bool, error)
	FindEventByFingerprint(ctx context.Context, fp string) (model.CompetitorEvent, error)
	// ListRecentEvents returns events newest publishedAt first.
	ListRecentEvents(ctx context.Context, limit int) ([]model.CompetitorEvent, error)

	CreateAlert(ctx context.Context, a model.Alert) (model.Alert, error)
	// ListAlerts returns alerts newest createdAt first.
	ListAlerts(ctx context.Context, limit int) ([]model.Alert, error)
	MarkAlertRead(ctx context.Context, id string) error

	CreateFeedback(ctx context.Context, f model.Feedback) (model.Feedback, error)

	Ping(ctx context.Context) error
	Close() error
}

// ClampLimit maps non-positive limits to the default and caps at MaxListLimit.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultListLimit
	}
	if n > MaxListLimit {
		return MaxListLimit
	}
	return n
}
