package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gastos/internal/backend"
	"gastos/internal/cli"
	"gastos/internal/config"
	applog "gastos/internal/log"
	"gastos/internal/services"
)

// app holds the services every subcommand works on. It is filled lazily by
// the root command so that --help never touches storage.
type app struct {
	persons      *services.PersonService
	categories   *services.CategoryService
	transactions *services.TransactionService
	reports      *services.ReportService
	activity     *services.ActivityService

	cleanup backend.CleanupFunc
}

func newApp(repo services.Repository, publisher services.EventPublisher) *app {
	return &app{
		persons:      services.NewPersonService(repo),
		categories:   services.NewCategoryService(repo),
		transactions: services.NewTransactionService(repo, publisher),
		reports:      services.NewReportService(repo),
		activity:     services.NewActivityService(repo),
	}
}

func (a *app) ready() bool { return a.persons != nil }

func (a *app) open(ctx context.Context, logLevel string) error {
	cfg := config.Load()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentCLI,
		Output:    os.Stderr,
	})
	applog.SetDefault(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}

	*a = *newApp(result.Repository, result.Publisher())
	a.cleanup = result.Cleanup
	return nil
}

func (a *app) close() {
	if a.cleanup != nil {
		_ = a.cleanup()
	}
}

func newRootCmd(a *app) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "gastosctl",
		Short:         "Manage household people, categories and transactions",
		Long:          `gastosctl works directly against the configured storage backend (DATA_BACKEND, SQLITE_DB_PATH).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.ready() {
				return nil
			}
			return a.open(cmd.Context(), logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(personsCmd(a))
	cmd.AddCommand(categoriesCmd(a))
	cmd.AddCommand(transactionsCmd(a))
	cmd.AddCommand(reportCmd(a))
	cmd.AddCommand(activityCmd(a))
	return cmd
}

func main() {
	cli.LoadEnvFile()

	ctx, cancel := cli.ShutdownContext(cli.BootstrapLogger(applog.ComponentCLI))

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
