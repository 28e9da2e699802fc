package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"cofounder-radar/internal/alert"
	"cofounder-radar/internal/model"
	"cofounder-radar/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler serves the API routes.
type Handler struct {
	deps     Dependencies
	validate *validator.Validate
}

type feedbackRequest struct {
	Rating  *int           `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment string         `json:"comment" validate:"max=5000"`
	Path    string         `json:"path" validate:"max=2048"`
	Context map[string]any `json:"context"`
	Contact string         `json:"contact" validate:"max=320"`
}

// parseLimit reads ?limit=N: missing or non-numeric values (including "10abc")
// yield the default, numbers are clamped to [1, MaxListLimit].
func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return storage.DefaultListLimit
	}
	if n < 1 {
		return 1
	}
	if n > storage.MaxListLimit {
		return storage.MaxListLimit
	}
	return n
}

func storeError(c echo.Context, op string, err error) error {
	slog.ErrorContext(c.Request().Context(), "http: store operation failed", "op", op, "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"message": op + " failed: store unavailable"})
}

// Refresh runs (or joins) a refresh cycle and returns its report.
func (h *Handler) Refresh(c echo.Context) error {
	report, err := h.deps.Refresher.Refresh(c.Request().Context())
	if err != nil {
		return storeError(c, "refresh", err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) ListEvents(c echo.Context) error {
	events, err := h.deps.Store.ListRecentEvents(c.Request().Context(), parseLimit(c.QueryParam("limit")))
	if err != nil {
		return storeError(c, "list events", err)
	}
	if events == nil {
		events = []model.CompetitorEvent{}
	}
	return c.JSON(http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) GetEvent(c echo.Context) error {
	ev, err := h.deps.Store.FindEventByFingerprint(c.Request().Context(), c.Param("fingerprint"))
	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}
	if err != nil {
		return storeError(c, "find event", err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *Handler) ListAlerts(c echo.Context) error {
	alerts, err := h.deps.Store.ListAlerts(c.Request().Context(), parseLimit(c.QueryParam("limit")))
	if err != nil {
		return storeError(c, "list alerts", err)
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}
	return c.JSON(http.StatusOK, map[string]any{"alerts": alerts})
}

func (h *Handler) MarkAlertRead(c echo.Context) error {
	err := h.deps.Store.MarkAlertRead(c.Request().Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "alert not found")
	}
	if err != nil {
		return storeError(c, "mark alert read", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateFeedback stores user feedback and raises a feedback alert. The alert
// is best effort.
func (h *Handler) CreateFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Rating == nil && req.Comment == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "rating or comment is required")
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	}
	ctx := c.Request().Context()
	f, err := h.deps.Store.CreateFeedback(ctx, model.Feedback{
		Rating:  req.Rating,
		Comment: req.Comment,
		Path:    strings.TrimSpace(req.Path),
		Context: req.Context,
		Contact: strings.TrimSpace(req.Contact),
	})
	if err != nil {
		return storeError(c, "create feedback", err)
	}
	if _, err := h.deps.Store.CreateAlert(ctx, alert.FeedbackAlert(f, h.deps.AlertLink)); err != nil {
		slog.WarnContext(ctx, "http: feedback alert not created", "feedback", f.ID, "error", err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Feedback received", "id": f.ID})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "min", "max":
		if field == "rating" {
			return "rating must be between 1 and 5"
		}
		return field + " is too long"
	default:
		return field + " is invalid"
	}
}

// Digest returns an AI market briefing over the most recent events.
func (h *Handler) Digest(c echo.Context) error {
	if h.deps.Briefer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "briefing is not configured")
	}
	ctx := c.Request().Context()
	events, err := h.deps.Store.ListRecentEvents(ctx, parseLimit(c.QueryParam("limit")))
	if err != nil {
		return storeError(c, "list events", err)
	}
	if events == nil {
		events = []model.CompetitorEvent{}
	}
	summary, err := h.deps.Briefer.BriefEvents(ctx, events, h.deps.Language)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "briefing failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"summary": summary, "events": events})
}

func (h *Handler) Health(c echo.Context) error {
	if err := h.deps.Store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
