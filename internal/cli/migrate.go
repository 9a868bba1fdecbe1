package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dejobratic/backoffice/internal/config"
	"github.com/dejobratic/backoffice/internal/database"
)

func newMigrateCmd(s *settings) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back Postgres schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := database.MigrateUp
			if len(args) == 1 {
				direction = database.MigrationDirection(args[0])
			}

			cfg, err := s.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Store.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations apply to the postgres store only, STORE_DRIVER is %s", cfg.Store.Driver)
			}
			if path == "" {
				path = cfg.Database.MigrationsPath
			}

			if err := s.migrate(cfg.Database.URL, path, direction); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete (%s)\n", direction, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Migrations directory (defaults to MIGRATIONS_PATH)")
	return cmd
}
