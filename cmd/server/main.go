package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Nkwor-Jane/pomodoro-study-app/internal/app"
	httpx "github.com/Nkwor-Jane/pomodoro-study-app/internal/http"
	"github.com/Nkwor-Jane/pomodoro-study-app/internal/store"
	"github.com/Nkwor-Jane/pomodoro-study-app/internal/ws"
	"github.com/Nkwor-Jane/pomodoro-study-app/pkg/metrics"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg.Env)

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres connection + migrations
	pg, err := store.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("postgres.connect", "err", err)
		log.Fatal(err)
	}
	defer pg.Close()
	if err := store.RunMigrations(ctx, pg, logger); err != nil {
		logger.Error("migrations", "err", err)
		log.Fatal(err)
	}

	// Optional redis mirror for room lifecycle events
	events, err := ws.NewEvents(ctx, cfg, logger)
	if err != nil {
		logger.Error("redis.connect", "err", err)
		log.Fatal(err)
	}
	defer events.Close()

	// Relay core: registry + hub
	registry := ws.NewRegistry()
	hub := ws.NewHub(logger, registry, events)
	metrics.RegisterRelayStats(registry.Stats)

	// HTTP + WS router
	router := httpx.NewRouter(cfg, logger, hub, pg)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server.crash", "err", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("server.shutdown.start")

	// shutdown
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("server.shutdown.complete")
	_ = os.Stdout.Sync()
}
