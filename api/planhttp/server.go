// Package planhttp exposes the planning service over HTTP. Routes accept
// the same named inputs the CLI takes and answer with the planner's result
// types; Prometheus exposition shares the listener.
package planhttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Benjamin-Elon/trellis/app"
	"github.com/Benjamin-Elon/trellis/infra/logger"
)

// Server routes planning requests to an app.Service.
type Server struct {
	svc *app.Service
	e   *echo.Echo
	log logger.Logger
}

// New wires the API routes onto a fresh echo instance.
func New(svc *app.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())

	s := &Server{svc: svc, e: e, log: logger.New("http")}

	e.GET("/healthz", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/plants", s.plants)
	api.GET("/cities", s.cities)
	api.POST("/plan", s.plan)
	api.POST("/window", s.window)
	api.POST("/explain", s.explain)
	api.GET("/history", s.history)
	return s
}

// Handler returns the routing handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.e }

// Start serves on addr until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	s.log.Infof("http api listening on %s", addr)
	if err := s.e.Start(addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
