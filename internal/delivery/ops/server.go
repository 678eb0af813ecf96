// Package ops serves the operational endpoints: health and Prometheus metrics.
package ops

import (
	"HamqadamBot/configs"
	"context"
	"errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
	"net/http"
)

type SessionCounter interface {
	Len() int
	GetCurrentStatesID(ctx context.Context) []int64
}

type QueueCounter interface {
	Pending() int
}

type Server struct {
	echo     *echo.Echo
	addr     string
	sessions SessionCounter
	queue    QueueCounter
	log      *slog.Logger
}

type HealthResponse struct {
	Status       string `json:"status"`
	Sessions     int    `json:"sessions"`
	ActiveDrafts int    `json:"active_drafts"`
	PendingUsers int    `json:"pending_users"`
}

func NewServer(cfg configs.MetricsConfig, sessions SessionCounter, queue QueueCounter, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		addr:     cfg.Addr,
		sessions: sessions,
		queue:    queue,
		log:      log,
	}
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return s
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:       "ok",
		Sessions:     s.sessions.Len(),
		ActiveDrafts: len(s.sessions.GetCurrentStatesID(c.Request().Context())),
		PendingUsers: s.queue.Pending(),
	})
}

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("starting ops server", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down ops server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}
