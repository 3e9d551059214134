// Package migrations keeps the SQLite schema of the status store up to date.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/migrator/internal/log"
)

//go:embed sql/*.sql
var schemaFiles embed.FS

const schemaMigrationsTable = "schema_migrations"

// Schema applies the embedded schema migrations to a SQLite database.
type Schema struct {
	db     *sql.DB
	logger log.Logger
}

// NewSchema creates a new schema handler.
func NewSchema(db *sql.DB, logger log.Logger) (*Schema, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = log.Noop
	}

	return &Schema{db: db, logger: logger}, nil
}

// Up applies all the pending schema migrations.
func (s *Schema) Up(ctx context.Context) error {
	return s.with(func(m *migrate.Migrate) error {
		err := m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not apply schema migrations: %w", err)
		}
		s.logger.Debugf("Schema migrations applied")
		return nil
	})
}

// Down reverts all the schema migrations.
func (s *Schema) Down(ctx context.Context) error {
	return s.with(func(m *migrate.Migrate) error {
		err := m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not revert schema migrations: %w", err)
		}
		s.logger.Debugf("Schema migrations reverted")
		return nil
	})
}

// Version returns the current schema version, 0 if no migration was applied.
func (s *Schema) Version(ctx context.Context) (version uint, err error) {
	err = s.with(func(m *migrate.Migrate) error {
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not get schema version: %w", err)
		}
		if dirty {
			return fmt.Errorf("schema version %d is dirty", v)
		}
		version = v
		return nil
	})
	return version, err
}

func (s *Schema) with(f func(m *migrate.Migrate) error) error {
	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{MigrationsTable: schemaMigrationsTable})
	if err != nil {
		return fmt.Errorf("could not create driver: %w", err)
	}

	src, err := iofs.New(schemaFiles, "sql")
	if err != nil {
		return fmt.Errorf("could not create fs: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			s.logger.Errorf("could not close fs: %s", err)
		}
	}()

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	return f(m)
}
