package partner

import (
	"context"
	"testing"

	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreditCustomer(t *testing.T, limit int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer("CUST-000001", "Ahmed Bakeries", "ahmed@bakeries.example", partner.BusinessTypeWholesaler)
	require.NoError(t, err)
	require.NoError(t, c.SetCreditLimit(decimal.NewFromInt(limit)))
	c.ClearDomainEvents()
	return c
}

func TestCreditService_Authorize(t *testing.T) {
	ctx := context.Background()

	t.Run("within available credit", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		resp, err := service.Authorize(ctx, customer.ID, decimal.NewFromInt(10000))
		require.NoError(t, err)
		assert.True(t, resp.Authorized)
		assert.True(t, resp.AvailableCredit.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("exceeding available credit reports the available figure", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		require.NoError(t, customer.Debit(decimal.NewFromInt(3000)))
		customer.ClearDomainEvents()
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		resp, err := service.Authorize(ctx, customer.ID, decimal.NewFromInt(7001))
		require.NoError(t, err)
		assert.False(t, resp.Authorized)
		assert.Contains(t, resp.Reason, "7000.00 available")
	})

	t.Run("suspended credit is refused regardless of headroom", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		require.NoError(t, customer.SetCreditStatus(partner.CreditStatusSuspended))
		customer.ClearDomainEvents()
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		resp, err := service.Authorize(ctx, customer.ID, decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.False(t, resp.Authorized)
	})

	t.Run("unknown customer surfaces CUSTOMER_NOT_FOUND", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		unknownID := uuid.New()
		customerRepo.On("FindByID", ctx, unknownID).Return(nil, partner.ErrCustomerNotFound)

		resp, err := service.Authorize(ctx, unknownID, decimal.NewFromInt(100))
		assert.Nil(t, resp)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CUSTOMER_NOT_FOUND", domainErr.Code)
	})

	t.Run("does not mutate the customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		_, err := service.Authorize(ctx, customer.ID, decimal.NewFromInt(5000))
		require.NoError(t, err)
		assert.True(t, customer.CurrentBalance.IsZero())
		customerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		customerRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestCreditService_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("debits and records ledger entry", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(nil)
		creditTxRepo.On("Create", ctx, mock.AnythingOfType("*partner.CreditTransaction")).Return(nil)

		sourceID := uuid.New().String()
		resp, err := service.Debit(ctx, customer.ID, DebitRequest{
			Amount:     decimal.NewFromInt(4000),
			SourceType: "SALES_ORDER",
			SourceID:   &sourceID,
		})

		require.NoError(t, err)
		assert.Equal(t, "DEBIT", resp.TransactionType)
		assert.True(t, resp.BalanceBefore.IsZero())
		assert.True(t, resp.BalanceAfter.Equal(decimal.NewFromInt(4000)))
		assert.True(t, customer.AvailableCredit.Equal(decimal.NewFromInt(6000)))
		creditTxRepo.AssertExpectations(t)
	})

	t.Run("gate rejects before any write", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 1000)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		_, err := service.Debit(ctx, customer.ID, DebitRequest{Amount: decimal.NewFromInt(1001)})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_CREDIT", domainErr.Code)
		customerRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		creditTxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("retries on version conflict", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(shared.ErrConcurrencyConflict).Once()
		customerRepo.On("SaveWithLock", ctx, customer).Return(nil).Once()
		creditTxRepo.On("Create", ctx, mock.AnythingOfType("*partner.CreditTransaction")).Return(nil)

		_, err := service.Debit(ctx, customer.ID, DebitRequest{Amount: decimal.NewFromInt(100)})

		require.NoError(t, err)
		customerRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
	})

	t.Run("gives up after repeated conflicts", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(shared.ErrConcurrencyConflict)

		_, err := service.Debit(ctx, customer.ID, DebitRequest{Amount: decimal.NewFromInt(100)})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		customerRepo.AssertNumberOfCalls(t, "SaveWithLock", 3)
		creditTxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCreditService_ApplyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("reduces the balance", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		require.NoError(t, customer.Debit(decimal.NewFromInt(6000)))
		customer.ClearDomainEvents()
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(nil)
		creditTxRepo.On("Create", ctx, mock.AnythingOfType("*partner.CreditTransaction")).Return(nil)

		resp, err := service.ApplyPayment(ctx, customer.ID, PaymentRequest{Amount: decimal.NewFromInt(2500)})

		require.NoError(t, err)
		assert.True(t, resp.Excess.IsZero())
		assert.Equal(t, "CREDIT", resp.Transaction.TransactionType)
		assert.True(t, resp.Transaction.BalanceAfter.Equal(decimal.NewFromInt(3500)))
		assert.True(t, customer.AvailableCredit.Equal(decimal.NewFromInt(6500)))
	})

	t.Run("overpayment floors at zero and reports excess", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		require.NoError(t, customer.Debit(decimal.NewFromInt(1000)))
		customer.ClearDomainEvents()
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(nil)

		var recorded *partner.CreditTransaction
		creditTxRepo.On("Create", ctx, mock.AnythingOfType("*partner.CreditTransaction")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).(*partner.CreditTransaction)
			}).Return(nil)

		resp, err := service.ApplyPayment(ctx, customer.ID, PaymentRequest{Amount: decimal.NewFromInt(1500)})

		require.NoError(t, err)
		assert.True(t, resp.Excess.Equal(decimal.NewFromInt(500)))
		assert.True(t, customer.CurrentBalance.IsZero())
		require.NotNil(t, recorded)
		assert.Contains(t, recorded.Remark, "unapplied excess 500.00")
		assert.True(t, recorded.BalanceChange().Equal(decimal.NewFromInt(-1000)))
	})

	t.Run("payment allowed while credit suspended", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		creditTxRepo := new(MockCreditTransactionRepository)
		service := NewCreditService(customerRepo, creditTxRepo)

		customer := newCreditCustomer(t, 10000)
		require.NoError(t, customer.Debit(decimal.NewFromInt(5000)))
		require.NoError(t, customer.SetCreditStatus(partner.CreditStatusSuspended))
		customer.ClearDomainEvents()
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(nil)
		creditTxRepo.On("Create", ctx, mock.AnythingOfType("*partner.CreditTransaction")).Return(nil)

		resp, err := service.ApplyPayment(ctx, customer.ID, PaymentRequest{Amount: decimal.NewFromInt(5000)})

		require.NoError(t, err)
		assert.True(t, resp.Transaction.BalanceAfter.IsZero())
	})
}

func TestCreditService_GetCreditSummary(t *testing.T) {
	ctx := context.Background()
	customerRepo := new(MockCustomerRepository)
	creditTxRepo := new(MockCreditTransactionRepository)
	service := NewCreditService(customerRepo, creditTxRepo)

	customer := newCreditCustomer(t, 20000)
	require.NoError(t, customer.Debit(decimal.NewFromInt(8000)))
	customer.ClearDomainEvents()
	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	summary, err := service.GetCreditSummary(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, summary.AvailableCredit.Equal(decimal.NewFromInt(12000)))
	assert.True(t, summary.CanTransact)
	assert.False(t, summary.AsOf.IsZero())
}

func TestCreditService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	customerRepo := new(MockCustomerRepository)
	creditTxRepo := new(MockCreditTransactionRepository)
	service := NewCreditService(customerRepo, creditTxRepo)

	customer := newCreditCustomer(t, 10000)
	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	entry, err := partner.NewCreditTransaction(
		customer.ID,
		partner.CreditTransactionTypeDebit,
		decimal.NewFromInt(4000),
		decimal.Zero,
		decimal.NewFromInt(4000),
		partner.CreditSourceTypeSalesOrder,
	)
	require.NoError(t, err)

	creditTxRepo.On("FindByCustomerID", ctx, customer.ID, mock.MatchedBy(func(f partner.CreditTransactionFilter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.TransactionType != nil && *f.TransactionType == partner.CreditTransactionTypeDebit
	})).Return([]*partner.CreditTransaction{entry}, int64(1), nil)

	items, total, err := service.ListTransactions(ctx, customer.ID, CreditTransactionListFilter{TransactionType: "DEBIT"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "DEBIT", items[0].TransactionType)
}
