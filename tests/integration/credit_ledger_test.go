package integration

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	partnerapp "github.com/flourmill/backend/internal/application/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/infrastructure/persistence"
)

func setupPartnerServices(t *testing.T, tdb *TestDB) (*partnerapp.CustomerService, *partnerapp.CreditService) {
	t.Helper()

	customerRepo := persistence.NewGormCustomerRepository(tdb.DB)
	creditTxRepo := persistence.NewGormCreditTransactionRepository(tdb.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(tdb.DB)

	customerService := partnerapp.NewCustomerService(customerRepo, sequenceRepo)
	creditService := partnerapp.NewCreditService(customerRepo, creditTxRepo)
	return customerService, creditService
}

func registerCreditCustomer(t *testing.T, svc *partnerapp.CustomerService, email string, limit decimal.Decimal) *partnerapp.CustomerResponse {
	t.Helper()

	resp, err := svc.Register(context.Background(), partnerapp.RegisterCustomerRequest{
		Name:         "Bakery " + email,
		Email:        email,
		BusinessType: "retailer",
		CreditLimit:  &limit,
	})
	require.NoError(t, err)
	return resp
}

func TestCreditLedgerFlow(t *testing.T) {
	tdb := NewSharedTestDB(t)
	t.Cleanup(tdb.CleanTables)

	customerService, creditService := setupPartnerServices(t, tdb)
	ctx := context.Background()

	customer := registerCreditCustomer(t, customerService, "ledger@example.com", decimal.NewFromInt(1000))
	assert.NotEmpty(t, customer.Number)
	assert.True(t, customer.AvailableCredit.Equal(decimal.NewFromInt(1000)))

	t.Run("debit reduces available credit", func(t *testing.T) {
		tx, err := creditService.Debit(ctx, customer.ID, partnerapp.DebitRequest{
			Amount:     decimal.NewFromInt(400),
			SourceType: "MANUAL",
			Remark:     "bulk flour pickup",
		})
		require.NoError(t, err)
		assert.True(t, tx.BalanceBefore.Equal(decimal.Zero))
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(400)))

		summary, err := creditService.GetCreditSummary(ctx, customer.ID)
		require.NoError(t, err)
		assert.True(t, summary.CurrentBalance.Equal(decimal.NewFromInt(400)))
		assert.True(t, summary.AvailableCredit.Equal(decimal.NewFromInt(600)))
	})

	t.Run("authorize rejects above the remaining headroom", func(t *testing.T) {
		resp, err := creditService.Authorize(ctx, customer.ID, decimal.NewFromInt(700))
		require.NoError(t, err)
		assert.False(t, resp.Authorized)
		assert.True(t, resp.AvailableCredit.Equal(decimal.NewFromInt(600)))

		resp, err = creditService.Authorize(ctx, customer.ID, decimal.NewFromInt(600))
		require.NoError(t, err)
		assert.True(t, resp.Authorized)
	})

	t.Run("debit beyond the limit is rejected", func(t *testing.T) {
		_, err := creditService.Debit(ctx, customer.ID, partnerapp.DebitRequest{
			Amount:     decimal.NewFromInt(601),
			SourceType: "MANUAL",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_CREDIT", domainErr.Code)
	})

	t.Run("payment restores headroom and reports excess", func(t *testing.T) {
		payment, err := creditService.ApplyPayment(ctx, customer.ID, partnerapp.PaymentRequest{
			Amount:     decimal.NewFromInt(500),
			SourceType: "PAYMENT",
			Reference:  "RCPT-001",
		})
		require.NoError(t, err)
		assert.True(t, payment.Excess.Equal(decimal.NewFromInt(100)))
		assert.True(t, payment.Transaction.BalanceAfter.Equal(decimal.Zero))

		summary, err := creditService.GetCreditSummary(ctx, customer.ID)
		require.NoError(t, err)
		assert.True(t, summary.AvailableCredit.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("ledger keeps every entry in order", func(t *testing.T) {
		entries, total, err := creditService.ListTransactions(ctx, customer.ID, partnerapp.CreditTransactionListFilter{
			Page:     1,
			PageSize: 20,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, entries, 2)
		for _, entry := range entries {
			assert.Equal(t, customer.ID, entry.CustomerID)
		}
	})
}

func TestCreditBlockedCustomer(t *testing.T) {
	tdb := NewSharedTestDB(t)
	t.Cleanup(tdb.CleanTables)

	customerService, creditService := setupPartnerServices(t, tdb)
	ctx := context.Background()

	customer := registerCreditCustomer(t, customerService, "blocked@example.com", decimal.NewFromInt(500))

	blocked := "blocked"
	_, err := customerService.UpdateCredit(ctx, customer.ID, partnerapp.UpdateCreditRequest{
		CreditStatus: &blocked,
	})
	require.NoError(t, err)

	_, err = creditService.Debit(ctx, customer.ID, partnerapp.DebitRequest{
		Amount:     decimal.NewFromInt(10),
		SourceType: "MANUAL",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CREDIT_INACTIVE", domainErr.Code)
}

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}
