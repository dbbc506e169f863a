package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/oneexim/portal/internal/api"
	"github.com/oneexim/portal/internal/config"
	"github.com/oneexim/portal/internal/http/handlers"
	"github.com/oneexim/portal/internal/middleware"
	"github.com/oneexim/portal/internal/obs"
	"github.com/oneexim/portal/internal/session"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner   *http.Server
	handler http.Handler
	rl      *middleware.RateLimiter
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, backend *api.Client, sessions *session.Manager, templates *handlers.TemplateCache, log *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	mux.Handle("GET /metrics", obs.Handler())
	handlers.NewHealthHandler(time.Now()).Register(mux)

	rl := middleware.NewRateLimiter(time.Minute)
	site := &handlers.SiteHandler{API: backend, Sessions: sessions, Templates: templates, Log: log}
	site.Register(mux, rl)
	auth := &handlers.AuthHandler{Sessions: sessions, Templates: templates, Log: log}
	auth.Register(mux)
	portal := &handlers.PortalHandler{API: backend, Sessions: sessions, Templates: templates, Log: log}
	portal.Register(mux)

	protect := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port}),
	)

	handler := middleware.Logging(log,
		obs.Instrument(
			middleware.SecurityHeaders(
				protect(mux),
			),
		),
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer, handler: handler, rl: rl}
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server and stops background work.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rl.Stop()
	return s.inner.Shutdown(ctx)
}
