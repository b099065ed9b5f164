// Command server is the application entry point. It wires together all
// layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ybenamar/guestlist/internal/config"
	"github.com/ybenamar/guestlist/internal/database"
	"github.com/ybenamar/guestlist/internal/handler"
	"github.com/ybenamar/guestlist/internal/metrics"
	"github.com/ybenamar/guestlist/internal/service"
	"github.com/ybenamar/guestlist/internal/store"
)

func main() {
	ctx := context.Background()
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.FromEnv()

	// ── 1. Pick the store backend ─────────────────────────────────────────
	var st store.Store
	switch cfg.Backend {
	case "memory":
		log.Warn().Msg("using in-memory store, data will not survive restarts")
		st = store.NewMemory()
	default:
		pool, err := database.NewPool(ctx, log)
		if err != nil {
			log.Fatal().Err(err).Msg("database")
		}
		defer pool.Close()
		pg := store.NewPostgres(pool)
		if err := pg.InitSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("schema")
		}
		st = pg
		log.Info().Msg("connected to postgres")
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	m := metrics.New()
	rsvpHandler := handler.NewRSVP(service.NewRSVP(st, log), m)
	adminHandler := handler.NewAdmin(service.NewAdmin(st, log), m)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.RequestLogger(log))

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/rsvp", rsvpHandler.Routes)
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(handler.RequireAdminToken(cfg.AdminToken, log))
		adminHandler.Routes(r)
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
