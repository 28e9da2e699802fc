package alert

import (
	"context"
	"fmt"
	"log/slog"

	"cofounder-radar/internal/model"
)

// Creator persists alerts.
type Creator interface {
	CreateAlert(ctx context.Context, a model.Alert) (model.Alert, error)
}

// Emitter raises one competitor alert per refresh cycle that stored new events.
type Emitter struct {
	Store Creator
	Title string
	Link  string
}

// NewEmitter creates an Emitter; empty title and link use the dashboard defaults.
func NewEmitter(store Creator, title, link string) *Emitter {
	if title == "" {
		title = "New market updates"
	}
	if link == "" {
		link = "/dashboard"
	}
	return &Emitter{Store: store, Title: title, Link: link}
}

// Emit creates the summary alert when created > 0. It reports whether an
// alert was stored.
func (e *Emitter) Emit(ctx context.Context, created int) (bool, error) {
	if created <= 0 {
		return false, nil
	}
	a, err := e.Store.CreateAlert(ctx, model.Alert{
		Type:    model.AlertCompetitor,
		Title:   e.Title,
		Message: fmt.Sprintf("%d new market events detected", created),
		Link:    e.Link,
	})
	if err != nil {
		return false, fmt.Errorf("alert: create competitor alert: %w", err)
	}
	slog.Info("alert: competitor alert created", "id", a.ID, "created", created)
	return true, nil
}

// FeedbackAlert builds the alert raised when a user submits feedback.
func FeedbackAlert(f model.Feedback, link string) model.Alert {
	msg := f.Comment
	if r := []rune(msg); len(r) > 140 {
		msg = string(r[:140])
	}
	if msg == "" && f.Rating != nil {
		msg = fmt.Sprintf("Rating: %d", *f.Rating)
	}
	if link == "" {
		link = "/dashboard"
	}
	return model.Alert{
		Type:    model.AlertFeedback,
		Title:   "New user feedback received",
		Message: msg,
		Link:    link,
	}
}
