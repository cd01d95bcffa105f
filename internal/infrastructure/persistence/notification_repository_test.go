package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockNotificationRepository(t *testing.T) (*GormNotificationRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormNotificationRepository(gormDB), mock, mockDB
}

func TestGormNotificationRepository_ExistsUnreadByDedupKey(t *testing.T) {
	t.Run("only unread rows count", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE dedup_key = \$1 AND is_read = \$2`).
			WithArgs("low_stock:wh-1:FLOUR-T55:50", false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsUnreadByDedupKey(context.Background(), "low_stock:wh-1:FLOUR-T55:50")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_CountUnread(t *testing.T) {
	t.Run("counts unread notifications", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE is_read = \$1`).
			WithArgs(false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountUnread(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_MarkAllRead(t *testing.T) {
	t.Run("updates every unread row", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "notifications" SET .* WHERE is_read = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 3))

		err := repo.MarkAllRead(context.Background())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
