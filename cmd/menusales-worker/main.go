package main

import (
	"context"
	"errors"
	"os"
	"time"

	"menusales/internal/amqp"
	"menusales/internal/backend"
	"menusales/internal/cli"
	applog "menusales/internal/log"
	"menusales/internal/storage"
	"menusales/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)
	logger.Info("Starting menusales-worker", applog.FieldOperation, applog.OpStartup, "source", cfg.SyncSource, "interval", cfg.SyncInterval)

	catalog, err := cfg.Catalog()
	if err != nil {
		logger.Error("Failed to load category catalog", applog.FieldError, err)
		os.Exit(1)
	}

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	bc.Type = backend.BackendType(cfg.SyncSource)
	bc.CacheEnabled = false

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	source, err := backend.NewFactory(logger.Logger).CreateLoader(ctx, bc, catalog)
	if err != nil {
		logger.Error("Failed to open sync source", applog.FieldError, err)
		os.Exit(1)
	}
	if source.Cleanup != nil {
		defer source.Cleanup()
	}

	mirror, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, catalog)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer mirror.Close()

	syncWorker := worker.NewSyncWorker(source.Loader, mirror, catalog)
	if err := syncWorker.SyncIfEmpty(ctx); err != nil {
		// Keep running; the periodic sync retries.
		logger.Error("Startup sync failed", applog.FieldOperation, applog.OpStartup, applog.FieldError, err)
	}
	go syncWorker.Run(ctx, cfg.SyncInterval)

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()

		go func() {
			err := client.ConsumeCommentAppended(ctx, syncWorker.HandleCommentAppended)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.WithComponent(applog.ComponentAMQP).Error("Comment notification consumption failed", applog.FieldError, err)
			}
		}()
	} else {
		logger.Info("AMQP disabled, comment notifications are not consumed")
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete", applog.FieldOperation, applog.OpShutdown)
}
