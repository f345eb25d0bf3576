package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fincontrol/internal/config"
	"fincontrol/internal/events"
	"fincontrol/internal/export"
	"fincontrol/internal/kv"
	applog "fincontrol/internal/log"
	"fincontrol/internal/store"
	"fincontrol/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "fincontrol-worker"})
	applog.SetDefault(logger)

	logger.Info("Starting fincontrol-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	// The worker must read the same records the server writes; the
	// memory backend would give it a private, empty store.
	if !cfg.SharedDataBackend() {
		logger.Error("The worker needs the store shared with the server; set DATA_BACKEND to file or sqlite",
			"backend", cfg.DataBackend)
		os.Exit(1)
	}

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Error("Failed to initialize record store backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer backend.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Google Sheets export is optional; without it the worker only keeps
	// the audit log.
	var exporter worker.ExpenseAppender
	if cfg.SheetsExportEnabled() {
		creds := export.Credentials{
			JSON: cfg.GoogleServiceAccountJSON,
			File: cfg.GoogleServiceAccountFile,
		}
		sheets, err := export.NewSheetsExporter(ctx, creds, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheets
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		logger.Info("Google Sheets export disabled")
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	auditWorker := worker.NewAuditWorker(store.New(backend), exporter, cfg.AuditLogPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeRecordEvents(gctx, func(event *events.RecordEvent) error {
			return auditWorker.HandleRecordEvent(gctx, event)
		})
	})
	g.Go(func() error {
		return auditWorker.RunSnapshots(gctx, cfg.AuditInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func openBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.DataBackend {
	case "file":
		return kv.NewFile(cfg.DataDir)
	case "sqlite":
		return kv.NewSQLite(cfg.SQLiteDBPath)
	default:
		return nil, fmt.Errorf("unsupported worker backend %q", cfg.DataBackend)
	}
}
