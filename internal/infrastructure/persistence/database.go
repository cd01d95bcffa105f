package persistence

import (
	"fmt"
	"time"

	"github.com/flourmill/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm handle together with pool management. All
// repositories share one Database per process.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a silent connection, mainly for tests and tooling.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return open(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithLogger opens a connection routing gorm's trace output
// through the given logger.
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	return open(cfg, gormLogger)
}

func open(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
		// Repositories manage transactions explicitly where a write
		// spans tables, so per-statement wrapping is skipped.
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close releases the connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping verifies the connection is still alive, for the health endpoint.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// PoolStats is the connection-pool snapshot surfaced on the system
// info endpoint.
type PoolStats struct {
	MaxOpenConnections int   `json:"max_open_connections"`
	OpenConnections    int   `json:"open_connections"`
	InUse              int   `json:"in_use"`
	Idle               int   `json:"idle"`
	WaitCount          int64 `json:"wait_count"`
}

// Stats reports the current pool usage.
func (d *Database) Stats() (PoolStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return PoolStats{}, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	s := sqlDB.Stats()
	return PoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
	}, nil
}

// Transaction runs fn inside one database transaction, rolling back
// when fn returns an error.
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.DB.Transaction(fn)
}
