package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"gastos/internal/backend"
	"gastos/internal/cli"
	"gastos/internal/config"
	applog "gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/worker"
)

var (
	errBrokerRequired    = errors.New("AMQP_URL is required for the worker")
	errBrokerUnreachable = errors.New("AMQP broker unreachable")
)

type openBackend func(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.BootstrapLogger(applog.ComponentWorker))
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)
	logger.Info("Starting gastos-worker", applog.FieldOperation, applog.OpStartup)

	ctx, cancel := cli.ShutdownContext(logger)
	err := run(applog.NewContext(ctx, logger), cfg, logger, cli.OpenBackend)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

// run consumes transaction events until ctx is canceled, releasing the
// backend on every return path.
func run(ctx context.Context, cfg *config.Config, logger *applog.Logger, open openBackend) error {
	if !cfg.AMQPEnabled() {
		logger.Error(errBrokerRequired.Error(),
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		return errBrokerRequired
	}

	be, err := open(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer cli.CloseBackend(logger, be)

	if be.AMQP == nil {
		logger.Error("AMQP broker unreachable, worker cannot start",
			applog.FieldErrorType, applog.ErrorTypeNetwork)
		return errBrokerUnreachable
	}

	w := worker.NewActivityWorker(
		services.NewActivityService(be.Repository),
		services.NewReportService(be.Repository),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return be.AMQP.ConsumeTransactionEvents(gctx, w.HandleTransactionEvent)
	})
	g.Go(func() error {
		return w.RunSnapshots(gctx, cfg.SnapshotInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		return err
	}
	logger.Info("Worker shutdown complete", applog.FieldOperation, applog.OpShutdown)
	return nil
}
