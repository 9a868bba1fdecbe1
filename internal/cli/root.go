// Package cli implements backofficectl, the operator command line for the backoffice store.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/dejobratic/backoffice/internal/bootstrap"
	"github.com/dejobratic/backoffice/internal/config"
	"github.com/dejobratic/backoffice/internal/database"
	"github.com/dejobratic/backoffice/internal/telemetry"
)

var version = "dev"

type settings struct {
	logLevel string

	loadConfig func() (*config.Config, error)
	migrate    func(databaseURL, migrationsPath string, direction database.MigrationDirection) error
	runtime    *bootstrap.Runtime
}

type Option func(*settings)

// WithRuntime makes every command use rt instead of building one from configuration.
// The caller keeps ownership of rt.
func WithRuntime(rt *bootstrap.Runtime) Option {
	return func(s *settings) { s.runtime = rt }
}

func WithConfigLoader(load func() (*config.Config, error)) Option {
	return func(s *settings) { s.loadConfig = load }
}

func WithMigrator(migrate func(databaseURL, migrationsPath string, direction database.MigrationDirection) error) Option {
	return func(s *settings) { s.migrate = migrate }
}

func NewRootCmd(opts ...Option) *cobra.Command {
	s := &settings{
		loadConfig: config.Load,
		migrate:    database.Migrate,
	}
	for _, opt := range opts {
		opt(s)
	}

	cmd := &cobra.Command{
		Use:           "backofficectl",
		Short:         "Operate the backoffice store",
		Long:          "backofficectl runs migrations, loads seed data, reports inventory and adjusts stock against the configured store.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newMigrateCmd(s))
	cmd.AddCommand(newSeedCmd(s))
	cmd.AddCommand(newInventoryCmd(s))
	cmd.AddCommand(newStockCmd(s))
	return cmd
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (s *settings) logger(cmd *cobra.Command) *slog.Logger {
	return telemetry.NewLogger(cmd.ErrOrStderr(), telemetry.ParseLevel(s.logLevel))
}

// withRuntime runs fn against the shared runtime, or one built from configuration
// and closed once fn returns.
func (s *settings) withRuntime(cmd *cobra.Command, fn func(rt *bootstrap.Runtime) error) error {
	if s.runtime != nil {
		return fn(s.runtime)
	}

	cfg, err := s.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt, err := bootstrap.Build(cmd.Context(), cfg, s.logger(cmd), otel.GetMeterProvider().Meter("backofficectl"))
	if err != nil {
		return err
	}
	defer rt.Close()

	return fn(rt)
}
