// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and the
screens into a runnable [http.Server].

Architecture:

  - This package is the topmost presentation boundary.
  - It acts as the composition root for the HTTP transport (chi router).
  - Only this package and cmd/web import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/vidshare/internal/platform/config"
	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/platform/middleware"
	"github.com/taibuivan/vidshare/internal/session"
	"github.com/taibuivan/vidshare/internal/web"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. Always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. 200 when every dependency answers.
	Readiness http.HandlerFunc

	// Web serves the browser screens.
	Web *web.Handler
}

// Chain holds the stateful middleware shared by every request.
type Chain struct {
	Proxies  *middleware.ProxyTrust
	Limiter  *middleware.RateLimiter
	Tabs     *middleware.TabCookies
	Sessions *session.Manager
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all routes.
func NewServer(cfg *config.Config, log *slog.Logger, chain Chain, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. There is no request
	// timeout: uploads stream through and operations are never cancelled.
	r.Use(middleware.RequestID())
	r.Use(chain.Proxies.Middleware)
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery)
	r.Use(chain.Limiter.Middleware)
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Probes carry no tab and never receive a cookie.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Browser Screens
	r.Group(func(app chi.Router) {
		app.Use(chain.Tabs.Middleware)
		app.Use(middleware.LoadSession(chain.Sessions))
		app.Use(middleware.Teardown)
		app.Mount("/", h.Web.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
