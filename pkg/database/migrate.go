package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"

	"github.com/voltride-motors/dealership-api/pkg/config"
)

// Migrate applies pending SQL migrations from the configured directory.
func Migrate(db *sqlx.DB, cfg config.DatabaseConfig) error {
	driver, err := pgmigrate.WithInstance(db.DB, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}

	dir := cfg.MigrationsDir
	if dir == "" {
		dir = "migrations"
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, cfg.Name, driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
