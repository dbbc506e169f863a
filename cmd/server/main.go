package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"github.com/oneexim/portal/internal/api"
	"github.com/oneexim/portal/internal/config"
	"github.com/oneexim/portal/internal/http/handlers"
	"github.com/oneexim/portal/internal/obs"
	"github.com/oneexim/portal/internal/server"
	sess "github.com/oneexim/portal/internal/session"
)

func main() {
	loadLocalEnv()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	obs.Init()

	backend := api.New(cfg.BackendURL, cfg.RequestTimeout)
	pingBackend(backend, logger)

	cookieStore := sessions.NewCookieStore(cfg.SessionKey)
	cookieStore.Options.HttpOnly = true
	cookieStore.Options.Secure = cfg.CookieSecure
	cookieStore.Options.SameSite = http.SameSiteLaxMode
	cookieStore.Options.Path = "/"

	manager := sess.NewManager(cookieStore, backend, logger)
	manager.FlashTTL = cfg.FlashTTL

	templates := handlers.NewTemplateCache()
	if err := templates.Load(cfg.TemplatesDir); err != nil {
		logger.Error("load templates", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, backend, manager, templates, logger)

	go func() {
		logger.Info("portal listening", "addr", cfg.HTTPAddress(), "backend", cfg.BackendURL)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", "error", err)
	}
}

// pingBackend fires the backend liveness probe once at startup. Failures are
// logged and otherwise ignored.
func pingBackend(backend *api.Client, logger *slog.Logger) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		msg, err := backend.Ping(ctx)
		if err != nil {
			logger.Warn("backend liveness probe failed", "error", err)
			return
		}
		logger.Info("backend reachable", "message", msg)
	}()
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; relying on existing environment")
	}
}
