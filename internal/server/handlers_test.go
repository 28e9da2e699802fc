package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cofounder-radar/internal/model"
	"cofounder-radar/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	report model.RefreshReport
	err    error
}

func (f fakeRefresher) Refresh(ctx context.Context) (model.RefreshReport, error) {
	return f.report, f.err
}

type fakeBriefer struct{}

func (fakeBriefer) BriefEvents(ctx context.Context, events []model.CompetitorEvent, language string) (string, error) {
	return "market is busy", nil
}

func (fakeBriefer) DescribeEvent(ctx context.Context, ev model.CompetitorEvent, language string) (string, error) {
	return "", nil
}

type testServer struct {
	e     *echo.Echo
	store *storage.RedisStore
	mr    *miniredis.Miniredis
}

func newTestServer(t *testing.T, deps Dependencies) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	store := storage.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })
	deps.Store = store
	if deps.Refresher == nil {
		deps.Refresher = fakeRefresher{report: model.RefreshReport{Errors: []model.FeedError{}}}
	}
	return &testServer{e: New(deps), store: store, mr: mr}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seedEvents(t *testing.T, n int) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ok, err := s.store.InsertEvent(context.Background(), model.CompetitorEvent{
			Source:      "Hacker News",
			Title:       "item",
			URL:         "http://x.com/" + string(rune('a'+i%26)),
			PublishedAt: base.Add(time.Duration(i) * time.Minute),
			Fingerprint: fmt.Sprintf("fp-%d", i),
		})
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestParseLimit(t *testing.T) {
	cases := map[string]int{"": 20, "abc": 20, "10abc": 20, "0": 1, "-3": 1, "5": 5, "100": 100, "500": 100}
	for in, want := range cases {
		assert.Equal(t, want, parseLimit(in), "limit %q", in)
	}
}

func TestRefreshReport(t *testing.T) {
	s := newTestServer(t, Dependencies{Refresher: fakeRefresher{report: model.RefreshReport{
		Created: 3, Checked: 5,
		Errors: []model.FeedError{{Source: "A", Error: "connection refused"}},
	}}})
	rec := s.do(http.MethodPost, "/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"created":3,"checked":5,"errors":[{"source":"A","error":"connection refused"}]}`, rec.Body.String())
}

func TestRefreshEmptyErrorsIsArray(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	rec := s.do(http.MethodPost, "/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"created":0,"checked":0,"errors":[]}`, rec.Body.String())
}

func TestRefreshStoreFailure(t *testing.T) {
	s := newTestServer(t, Dependencies{Refresher: fakeRefresher{err: errors.New("redis down")}})
	rec := s.do(http.MethodPost, "/refresh", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.NotEmpty(t, body["message"])
	assert.NotContains(t, body["message"], "redis down")
}

func TestListEventsClamp(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	s.seedEvents(t, 30)

	var body struct {
		Events []model.CompetitorEvent `json:"events"`
	}
	rec := s.do(http.MethodGet, "/events?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &body)
	require.Len(t, body.Events, 5)
	assert.True(t, body.Events[0].PublishedAt.After(body.Events[1].PublishedAt), "newest first")

	rec = s.do(http.MethodGet, "/events?limit=abc", "")
	decode(t, rec, &body)
	assert.Len(t, body.Events, 20)

	rec = s.do(http.MethodGet, "/events?limit=0", "")
	decode(t, rec, &body)
	assert.Len(t, body.Events, 1)
}

func TestListEventsEmpty(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	rec := s.do(http.MethodGet, "/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"events":[]}`, rec.Body.String())
}

func TestGetEvent(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	s.seedEvents(t, 1)
	rec := s.do(http.MethodGet, "/events/fp-0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ev model.CompetitorEvent
	decode(t, rec, &ev)
	assert.Equal(t, "fp-0", ev.Fingerprint)

	rec = s.do(http.MethodGet, "/events/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertsListAndRead(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	a, err := s.store.CreateAlert(context.Background(), model.Alert{Type: model.AlertCompetitor, Title: "New market updates"})
	require.NoError(t, err)

	rec := s.do(http.MethodPost, "/alerts/"+a.ID+"/read", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	var body struct {
		Alerts []model.Alert `json:"alerts"`
	}
	rec = s.do(http.MethodGet, "/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &body)
	require.Len(t, body.Alerts, 1)
	assert.True(t, body.Alerts[0].Read)

	rec = s.do(http.MethodPost, "/alerts/nope/read", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateFeedback(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	rec := s.do(http.MethodPost, "/feedback", `{"rating":4,"comment":"  love it ","path":"/dashboard","context":{"plan":"free"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body map[string]string
	decode(t, rec, &body)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Feedback received", body["message"])

	alerts, err := s.store.ListAlerts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertFeedback, alerts[0].Type)
	assert.Equal(t, "love it", alerts[0].Message)
}

func TestCreateFeedbackValidation(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	for name, body := range map[string]string{
		"empty":       `{}`,
		"blank":       `{"comment":"   "}`,
		"rating low":  `{"rating":0}`,
		"rating high": `{"rating":6,"comment":"x"}`,
		"malformed":   `{"rating":`,
	} {
		rec := s.do(http.MethodPost, "/feedback", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
	alerts, err := s.store.ListAlerts(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestDigest(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	rec := s.do(http.MethodGet, "/digest", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s = newTestServer(t, Dependencies{Briefer: fakeBriefer{}})
	s.seedEvents(t, 2)
	rec = s.do(http.MethodGet, "/digest?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Summary string                  `json:"summary"`
		Events  []model.CompetitorEvent `json:"events"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "market is busy", body.Summary)
	assert.Len(t, body.Events, 1)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	rec := s.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	s.mr.Close()
	rec = s.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	rec := s.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
