package alert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cofounder-radar/internal/model"
)

type recordingStore struct {
	alerts []model.Alert
	err    error
}

func (r *recordingStore) CreateAlert(_ context.Context, a model.Alert) (model.Alert, error) {
	if r.err != nil {
		return a, r.err
	}
	a.ID = "id"
	r.alerts = append(r.alerts, a)
	return a, nil
}

func TestEmitGating(t *testing.T) {
	st := &recordingStore{}
	e := NewEmitter(st, "", "")

	ok, err := e.Emit(context.Background(), 0)
	if err != nil || ok {
		t.Fatalf("zero created should not alert: ok=%v err=%v", ok, err)
	}
	if len(st.alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(st.alerts))
	}

	ok, err = e.Emit(context.Background(), 3)
	if err != nil || !ok {
		t.Fatalf("Emit(3): ok=%v err=%v", ok, err)
	}
	if len(st.alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(st.alerts))
	}
	a := st.alerts[0]
	if a.Type != model.AlertCompetitor || a.Title != "New market updates" || a.Link != "/dashboard" {
		t.Errorf("unexpected alert %+v", a)
	}
	if a.Message != "3 new market events detected" {
		t.Errorf("message = %q", a.Message)
	}
}

func TestEmitError(t *testing.T) {
	e := NewEmitter(&recordingStore{err: errors.New("down")}, "t", "/x")
	if _, err := e.Emit(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestFeedbackAlert(t *testing.T) {
	rating := 5
	a := FeedbackAlert(model.Feedback{Rating: &rating}, "")
	if a.Message != "Rating: 5" || a.Type != model.AlertFeedback {
		t.Errorf("unexpected alert %+v", a)
	}
	long := strings.Repeat("x", 200)
	a = FeedbackAlert(model.Feedback{Comment: long, Rating: &rating}, "/dashboard")
	if len(a.Message) != 140 {
		t.Errorf("message length = %d, want 140", len(a.Message))
	}
}
