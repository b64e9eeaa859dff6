// Package cli holds the start-up steps shared by cmd/menusales and
// cmd/salesctl.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"menusales/internal/backend"
	"menusales/internal/config"
	"menusales/internal/core"
	applog "menusales/internal/log"
	"menusales/internal/services"
)

// SetupLogger builds the process logger at level and makes it the slog
// default.
func SetupLogger(level string) *applog.Logger {
	logger := applog.New(applog.Config{Level: applog.ParseLevel(level), Component: applog.ComponentApp})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// App is the wired service graph.
type App struct {
	Catalog  *core.Catalog
	Sales    *services.SalesService
	Comments *services.CommentService

	cleanup backend.CleanupFunc
}

// Build opens the configured sales source and the comment log.
func Build(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*App, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentApp).Logger)
	res, err := factory.CreateLoader(ctx, bc, catalog)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bc.Type, err)
	}

	return &App{
		Catalog:  catalog,
		Sales:    services.NewSalesService(res.Loader, catalog),
		Comments: factory.CreateCommentService(bc),
		cleanup:  res.Cleanup,
	}, nil
}

// Close releases the source and the comment publisher.
func (a *App) Close() error {
	var errs []error
	if err := a.Comments.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.cleanup != nil {
		if err := a.cleanup(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown, "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
