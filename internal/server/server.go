// Package server exposes the ingestion pipeline and its stored data over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cofounder-radar/internal/ai"
	"cofounder-radar/internal/model"
	"cofounder-radar/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Refresher runs a refresh cycle on demand.
type Refresher interface {
	Refresh(ctx context.Context) (model.RefreshReport, error)
}

// Dependencies are the collaborators the handlers need. Briefer may be nil.
type Dependencies struct {
	Store     storage.Store
	Refresher Refresher
	Briefer   ai.Briefer
	Language  string
	AlertLink string
}

// New creates the Echo server with every route registered.
func New(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/healthz" || path == "/metrics"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.InfoContext(c.Request().Context(), "http: request completed",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"error", v.Error)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	h := &Handler{deps: deps, validate: validator.New()}
	e.POST("/refresh", h.Refresh)
	e.GET("/events", h.ListEvents)
	e.GET("/events/:fingerprint", h.GetEvent)
	e.GET("/alerts", h.ListAlerts)
	e.POST("/alerts/:id/read", h.MarkAlertRead)
	e.POST("/feedback", h.CreateFeedback)
	e.GET("/digest", h.Digest)
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, e *echo.Echo, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		slog.Info("http: listening", "addr", srv.Addr)
		if err := e.StartServer(srv); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
