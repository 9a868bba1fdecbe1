package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// MigrationDirection selects whether migrations are applied or rolled back.
type MigrationDirection string

const (
	MigrateUp   MigrationDirection = "up"
	MigrateDown MigrationDirection = "down"
)

var migrationSteps = map[MigrationDirection]func(*migrate.Migrate) error{
	MigrateUp:   (*migrate.Migrate).Up,
	MigrateDown: (*migrate.Migrate).Down,
}

// RunMigrations brings the schema up to the latest version. Used at API startup
// when AUTO_MIGRATE is set.
func RunMigrations(databaseURL, migrationsPath string) error {
	return Migrate(databaseURL, migrationsPath, MigrateUp)
}

// Migrate applies or rolls back every migration under migrationsPath. Being
// already at the target version is not an error.
func Migrate(databaseURL, migrationsPath string, direction MigrationDirection) error {
	step, ok := migrationSteps[direction]
	if !ok {
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database for migrations: %w", err)
	}
	defer db.Close()

	m, err := newMigrator(db, migrationsPath)
	if err != nil {
		return err
	}

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}

func newMigrator(db *sql.DB, migrationsPath string) (*migrate.Migrate, error) {
	target, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "backoffice_schema_migrations"})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", target)
	if err != nil {
		return nil, fmt.Errorf("load migrations from %s: %w", migrationsPath, err)
	}
	return m, nil
}
