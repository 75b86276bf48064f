// Package main is the entry point for the ProCiv logbook API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/prociv-logbook/api"
	"github.com/pkordes/prociv-logbook/internal/config"
	"github.com/pkordes/prociv-logbook/internal/handler"
	"github.com/pkordes/prociv-logbook/internal/inflight"
	"github.com/pkordes/prociv-logbook/internal/middleware"
	"github.com/pkordes/prociv-logbook/internal/repo"
	"github.com/pkordes/prociv-logbook/internal/service"
	"github.com/pkordes/prociv-logbook/internal/sink"
	"github.com/pkordes/prociv-logbook/migrations"
)

// redisLease bounds how long a trip stays in flight in Redis if the process
// dies before releasing it.
const redisLease = 2 * time.Minute

// sinkTimeout caps a single delivery to the spreadsheet endpoint.
const sinkTimeout = 30 * time.Second

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// goose runs over database/sql; share the pool's connections.
	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(ctx, sqlDB)
	_ = sqlDB.Close()
	if err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied", "count", applied)

	// --- In-flight guard --------------------------------------------------
	var guard inflight.Guard = inflight.NewMemoryGuard()
	if cfg.RedisURL != "" {
		client, err := inflight.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		guard = inflight.NewRedisGuard(client, redisLease)
		slog.Info("redis in-flight guard enabled")
	}

	// --- Services ---------------------------------------------------------
	tripRepo := repo.NewTripRepo(pool)
	vehicleRepo := repo.NewVehicleRepo(pool)
	volunteerRepo := repo.NewVolunteerRepo(pool)
	settingsRepo := repo.NewSettingsRepo(pool)

	journal := service.NewJournal(tripRepo)
	dispatcher := service.NewDispatcher(
		journal,
		vehicleRepo,
		settingsRepo,
		guard,
		sink.NewHTTPClient(&http.Client{Timeout: sinkTimeout}),
		logger,
		service.DispatcherConfig{
			AutoDelay:    cfg.SyncAutoDelay,
			ReleaseDelay: cfg.SyncReleaseDelay,
		},
	)
	trips := service.NewTripService(journal, volunteerRepo,
		service.WithCompletionHook(dispatcher.Schedule))
	rosters := service.NewRosterService(vehicleRepo, volunteerRepo)
	settings := service.NewSettingsService(settingsRepo)
	export := service.NewExportService(journal, vehicleRepo)

	if seeded, err := settings.SeedSinkURL(ctx, cfg.SinkURL); err != nil {
		slog.Error("failed to seed sink url", "error", err)
		os.Exit(1)
	} else if seeded {
		slog.Info("sink url seeded from environment")
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srvHandler := handler.NewServer(handler.Services{
		Trips:    trips,
		Sync:     dispatcher,
		Rosters:  rosters,
		Settings: settings,
		Export:   export,
	}, logger, api.OpenAPI)
	handler.HandlerFromMux(srvHandler, r)

	// --- HTTP Server ------------------------------------------------------
	// A bulk sync may run for a while, so the write timeout is generous.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	// Let scheduled auto-syncs finish before the pool closes.
	dispatcher.Wait()
	slog.Info("server stopped")
}
