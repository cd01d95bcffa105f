// Package integration runs the domain flows against a real PostgreSQL
// instance provisioned through testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/flourmill/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// One container serves the whole package; tests isolate themselves by
// truncating tables, which is far cheaper than a container per test.
var (
	containerMu  sync.Mutex
	containerRef testcontainers.Container
	containerDSN string
)

// TestDB is a migrated connection into the shared test database.
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	t     *testing.T
}

// NewSharedTestDB connects to the package-wide container, starting and
// migrating it on first use. The connection closes with the test; the
// container lives until CleanupSharedContainer runs in TestMain.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	containerMu.Lock()
	defer containerMu.Unlock()

	if containerRef == nil {
		startContainer(t)
	}

	db, sqlDB := connect(t, containerDSN)
	t.Cleanup(func() { sqlDB.Close() })

	return &TestDB{DB: db, SqlDB: sqlDB, t: t}
}

// CleanTables truncates every table except the migration bookkeeping.
// Registered as test cleanup so each test starts from empty rows.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "list tables")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("truncate %s: %v", table, err)
		}
	}
}

// CleanupSharedContainer terminates the shared container. Call it from
// TestMain after m.Run.
func CleanupSharedContainer() {
	containerMu.Lock()
	defer containerMu.Unlock()

	if containerRef == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = containerRef.Terminate(ctx)
	containerRef = nil
	containerDSN = ""
}

func startContainer(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("flourmill_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "container connection string")

	containerRef = container
	containerDSN = dsn

	_, sqlDB := connect(t, dsn)
	defer sqlDB.Close()
	migrate(t, sqlDB)
}

func connect(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	level := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = logger.Info
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	require.NoError(t, err, "connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "unwrap sql.DB")
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)

	return db, sqlDB
}

// migrate applies the repository's migrations through the same Migrator
// the migrate command uses.
func migrate(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	path := migrationsDir()
	require.NotEmpty(t, path, "locate migrations directory")

	m, err := migration.New(sqlDB, path, zap.NewNop())
	require.NoError(t, err, "build migrator")
	require.NoError(t, m.Up(), "apply migrations")
}

// migrationsDir walks up from this file to the repository root.
func migrationsDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
