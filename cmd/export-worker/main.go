package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/config"
	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/events"
	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/export"
	applog "github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/log"
	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting export worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exporter export.Exporter
	switch cfg.ExportTarget {
	case "sheets":
		exporter, err = export.NewSheetsExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Sheets exporter", "error", err)
			os.Exit(1)
		}
		logger.Info("Exporting to Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	default:
		exporter, err = export.NewCSVExporter(cfg.ExportCSVPath)
		if err != nil {
			logger.Error("Failed to initialize CSV exporter", "error", err)
			os.Exit(1)
		}
		logger.Info("Exporting to CSV", "path", cfg.ExportCSVPath)
	}

	amqpClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportLog := logger.WithComponent(applog.ComponentExport).With("target", cfg.ExportTarget)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(ctx, func(event *events.ExpenseEvent) error {
			row, err := export.BuildRow(ctx, repo, event)
			if err != nil {
				return err
			}
			if err := exporter.Export(ctx, row); err != nil {
				return err
			}
			exportLog.InfoContext(ctx, "Exported expense event",
				applog.FieldOperation, applog.OpExport,
				applog.FieldEntryID, event.ID,
				applog.FieldAction, event.Action)
			return nil
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
