package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies the SQL migrations under migrations/ through
// golang-migrate, on top of an already open database connection.
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New wraps an existing connection in a Migrator reading migration
// files from migrationsPath.
func New(db *sql.DB, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}

	return &Migrator{m: m, log: log}, nil
}

// Up applies every pending migration.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := mg.m.Version()
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	mg.log.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Down rolls back every applied migration.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info("nothing to roll back")
			return nil
		}
		return fmt.Errorf("migrate down: %w", err)
	}
	mg.log.Info("all migrations rolled back")
	return nil
}

// Steps moves n migrations forward, or backward when n is negative.
func (mg *Migrator) Steps(n int) error {
	if err := mg.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate steps(%d): %w", n, err)
	}
	return nil
}

// Version reports the current schema version. A database with no
// applied migrations reports version 0, not an error.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any SQL. Only
// for repairing a dirty schema_migrations row.
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("forcing migration version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles held by the migrator.
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}
