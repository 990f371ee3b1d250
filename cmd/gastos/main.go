package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"gastos/internal/backend"
	"gastos/internal/cli"
	"gastos/internal/config"
	apphttp "gastos/internal/http"
	applog "gastos/internal/log"
	"gastos/internal/seed"
	"gastos/internal/services"
)

// openBackend matches cli.OpenBackend; tests substitute an in-memory backend.
type openBackend func(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.BootstrapLogger(applog.ComponentApp))
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	ctx, cancel := cli.ShutdownContext(logger)
	err := run(applog.NewContext(ctx, logger), cfg, logger, cli.OpenBackend)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

// run serves the API until ctx is canceled. The backend is always cleaned up
// before it returns.
func run(ctx context.Context, cfg *config.Config, logger *applog.Logger, open openBackend) error {
	be, err := open(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer cli.CloseBackend(logger, be)

	deps := apphttp.Dependencies{
		Persons:      services.NewPersonService(be.Repository),
		Categories:   services.NewCategoryService(be.Repository),
		Transactions: services.NewTransactionService(be.Repository, be.Publisher()),
		Reports:      services.NewReportService(be.Repository),
		Activity:     services.NewActivityService(be.Repository),
		Checks:       map[string]apphttp.Pinger{"storage": be.Repository, "amqp": nil},
	}
	if be.AMQP != nil {
		deps.Checks["amqp"] = be.AMQP
	}

	if cfg.SeedFile != "" {
		if err := applySeed(ctx, cfg.SeedFile, deps); err != nil {
			logger.Error("Failed to apply seed file", applog.FieldError, err, "path", cfg.SeedFile)
			return fmt.Errorf("apply seed %s: %w", cfg.SeedFile, err)
		}
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		RequestTimeout:     cfg.RequestTimeout,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	}, deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting gastos server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"amqp_enabled", be.AMQP != nil,
			applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func applySeed(ctx context.Context, path string, deps apphttp.Dependencies) error {
	file, err := seed.Load(path)
	if err != nil {
		return err
	}
	_, err = file.Apply(ctx, seed.Services{
		Persons:      deps.Persons,
		Categories:   deps.Categories,
		Transactions: deps.Transactions,
	})
	return err
}
