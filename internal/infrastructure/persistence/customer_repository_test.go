package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func TestNewGormCustomerRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	t.Run("finds existing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "number", "name", "email", "business_type", "status", "credit_limit", "current_balance", "available_credit", "credit_status"}).
			AddRow(customerID, 3, "CUST-000001", "Nile Bakery", "orders@nilebakery.example", "retailer", "active", decimal.NewFromInt(50000), decimal.NewFromInt(12000), decimal.NewFromInt(38000), "active")

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.NoError(t, err)
		assert.NotNil(t, customer)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, "CUST-000001", customer.Number)
		assert.Equal(t, 3, customer.Version)
		assert.True(t, customer.AvailableCredit.Equal(decimal.NewFromInt(38000)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns CUSTOMER_NOT_FOUND for non-existent customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.Error(t, err)
		assert.Nil(t, customer)
		assert.ErrorIs(t, err, partner.ErrCustomerNotFound)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CUSTOMER_NOT_FOUND", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindByNumber(t *testing.T) {
	t.Run("normalizes the number to upper case", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "version", "number", "name", "email", "business_type", "status"}).
			AddRow(customerID, 1, "CUST-000007", "Delta Mills", "buy@deltamills.example", "wholesaler", "active")

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("CUST-000007", 1).
			WillReturnRows(rows)

		customer, err := repo.FindByNumber(context.Background(), "cust-000007")

		assert.NoError(t, err)
		assert.Equal(t, "CUST-000007", customer.Number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_SaveWithLock(t *testing.T) {
	t.Run("updates when stored version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := partner.NewCustomer("CUST-000001", "Nile Bakery", "orders@nilebakery.example", partner.BusinessTypeRetailer)
		require.NoError(t, err)
		customer.Version = 4

		mock.ExpectExec(`UPDATE "customers" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), customer)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports conflict when no row matches the version", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := partner.NewCustomer("CUST-000001", "Nile Bakery", "orders@nilebakery.example", partner.BusinessTypeRetailer)
		require.NoError(t, err)
		customer.Version = 4

		mock.ExpectExec(`UPDATE "customers" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), customer)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_ExistsByEmail(t *testing.T) {
	t.Run("empty email never exists", func(t *testing.T) {
		repo, _, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		exists, err := repo.ExistsByEmail(context.Background(), "")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE email = \$1`).
			WithArgs("orders@nilebakery.example").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByEmail(context.Background(), "Orders@NileBakery.example")
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
