// Package debug runs the optional local diagnostics listener. It is the
// only HTTP surface this client owns; the portfolio backend is an
// external collaborator.
package debug

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"folio/internal/lib/logger/sl"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	log  *slog.Logger
	e    *echo.Echo
	addr string
}

func New(log *slog.Logger, host, port string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return &Server{
		log:  log,
		e:    e,
		addr: net.JoinHostPort(host, port),
	}
}

// Run blocks serving the listener; intended for a goroutine.
func (s *Server) Run() {
	const op = "debug.Server.Run"

	s.log.Info("debug listener started", slog.String("addr", s.addr))

	if err := s.e.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.log.Error("debug listener stopped", slog.String("op", op), sl.Err(err))
	}
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
