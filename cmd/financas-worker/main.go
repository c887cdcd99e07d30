package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"financas/internal/amqp"
	"financas/internal/backup/sheets"
	"financas/internal/config"
	applog "financas/internal/log"
	"financas/internal/storage"
	"financas/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting financas-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.BackupSpreadsheetID == "" {
		logger.Error("Backup worker requires BACKUP_SPREADSHEET_ID")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("Backup worker requires AMQP_URL")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		logger.Warn("Invalid locale, falling back to pt-BR", "locale", cfg.Locale)
		locale = language.BrazilianPortuguese
	}

	writer, err := sheets.New(ctx, cfg.BackupSpreadsheetID, cfg.BackupSheetName, locale)
	if err != nil {
		logger.Error("Failed to initialize backup target", "error", err)
		os.Exit(1)
	}
	logger.Info("Backup target initialized", "spreadsheet_id", cfg.BackupSpreadsheetID, "sheet", cfg.BackupSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewBackupWorker(repo, writer, cfg.BackupBatchSize)

	// Catch rows queued while the worker was down before consuming.
	if err := w.ProcessPendingBackups(ctx); err != nil {
		logger.Error("Startup backup sweep failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeBackups(ctx, func(msg *amqp.BackupMessage) error {
			return w.HandleBackupMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.BackupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.ProcessPendingBackups(ctx); err != nil {
					logger.Error("Periodic backup sweep failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
