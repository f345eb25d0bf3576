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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fincontrol/internal/auth"
	"fincontrol/internal/config"
	"fincontrol/internal/events"
	apphttp "fincontrol/internal/http"
	"fincontrol/internal/kv"
	applog "fincontrol/internal/log"
	"fincontrol/internal/services"
	"fincontrol/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "fincontrol"})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Error("Failed to initialize record store backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer backend.Close()
	logger.Info("Record store initialized", "backend", cfg.DataBackend)

	// AMQP is optional: without a broker URL the app runs standalone and
	// skips change events.
	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without events", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	var authSvc auth.Service
	switch cfg.AuthBackend {
	case "gotrue":
		authSvc = auth.NewGoTrueClient(cfg.AuthBaseURL, cfg.AuthAnonKey)
		logger.Info("GoTrue auth initialized", "base_url", cfg.AuthBaseURL)
	default:
		authSvc = auth.NewLocalService()
		logger.Info("Local auth initialized")
	}

	ledger := services.NewLedger(store.New(backend), publisher)
	srv := apphttp.NewServer(":"+cfg.Port, ledger, authSvc)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fincontrol server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func openBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.DataBackend {
	case "file":
		return kv.NewFile(cfg.DataDir)
	case "sqlite":
		return kv.NewSQLite(cfg.SQLiteDBPath)
	default:
		return kv.NewMemory(), nil
	}
}
