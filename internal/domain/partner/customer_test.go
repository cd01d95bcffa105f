package partner

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates customer successfully", func(t *testing.T) {
		customer, err := NewCustomer("CUST-000001", "Golden Grain Traders", "orders@goldengrain.example", BusinessTypeWholesaler)

		require.NoError(t, err)
		assert.Equal(t, "CUST-000001", customer.Number)
		assert.Equal(t, "Golden Grain Traders", customer.Name)
		assert.Equal(t, "orders@goldengrain.example", customer.Email)
		assert.Equal(t, BusinessTypeWholesaler, customer.BusinessType)
		assert.Equal(t, CustomerStatusActive, customer.Status)
		assert.Equal(t, CreditStatusActive, customer.CreditStatus)
		assert.True(t, customer.CreditLimit.IsZero())
		assert.True(t, customer.CurrentBalance.IsZero())
		assert.True(t, customer.AvailableCredit.IsZero())
		assert.Equal(t, 30, customer.CreditTermsDays)
		assert.Len(t, customer.GetDomainEvents(), 1)
	})

	t.Run("lowercases email", func(t *testing.T) {
		customer, err := NewCustomer("CUST-000002", "Test", "Shop@Example.COM", BusinessTypeRetailer)

		require.NoError(t, err)
		assert.Equal(t, "shop@example.com", customer.Email)
	})

	t.Run("fails with empty number", func(t *testing.T) {
		_, err := NewCustomer("", "Test", "a@b.co", BusinessTypeRetailer)
		assert.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCustomer("CUST-000003", "", "a@b.co", BusinessTypeRetailer)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		_, err := NewCustomer("CUST-000003", "Test", "not-an-email", BusinessTypeRetailer)
		assert.Error(t, err)
	})

	t.Run("fails with unknown business type", func(t *testing.T) {
		_, err := NewCustomer("CUST-000003", "Test", "a@b.co", BusinessType("franchise"))
		assert.Error(t, err)
	})
}

func TestAvailableCreditOf(t *testing.T) {
	cases := []struct {
		name     string
		limit    string
		balance  string
		expected string
	}{
		{"headroom remains", "10000", "3000", "7000"},
		{"fully used", "10000", "10000", "0"},
		{"balance over limit floors at zero", "5000", "8000", "0"},
		{"zero limit", "0", "0", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit := decimal.RequireFromString(tc.limit)
			balance := decimal.RequireFromString(tc.balance)

			got := AvailableCreditOf(limit, balance)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)), "got %s", got)

			// Recomputation is idempotent
			again := AvailableCreditOf(limit, balance)
			assert.True(t, got.Equal(again))
		})
	}
}

func TestCustomerAuthorizeCharge(t *testing.T) {
	newCustomerWithCredit := func(t *testing.T, limit, balance string) *Customer {
		t.Helper()
		customer, err := NewCustomer("CUST-000010", "Mill Bakery", "bakery@example.com", BusinessTypeRetailer)
		require.NoError(t, err)
		require.NoError(t, customer.SetCreditLimit(decimal.RequireFromString(limit)))
		if balance != "0" {
			require.NoError(t, customer.Debit(decimal.RequireFromString(balance)))
		}
		return customer
	}

	t.Run("accepts within available credit", func(t *testing.T) {
		customer := newCustomerWithCredit(t, "10000", "3000")
		assert.NoError(t, customer.AuthorizeCharge(decimal.RequireFromString("6000")))
	})

	t.Run("accepts exactly available credit", func(t *testing.T) {
		customer := newCustomerWithCredit(t, "10000", "3000")
		assert.NoError(t, customer.AuthorizeCharge(decimal.RequireFromString("7000")))
	})

	t.Run("rejects above available credit", func(t *testing.T) {
		customer := newCustomerWithCredit(t, "10000", "3000")
		err := customer.AuthorizeCharge(decimal.RequireFromString("8000"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "7000.00 available")
	})

	t.Run("rejects any amount when credit suspended", func(t *testing.T) {
		customer := newCustomerWithCredit(t, "9999", "0")
		require.NoError(t, customer.SetCreditStatus(CreditStatusSuspended))

		err := customer.AuthorizeCharge(decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrCreditInactive)
	})

	t.Run("rejects when account inactive even with credit active", func(t *testing.T) {
		customer := newCustomerWithCredit(t, "9999", "0")
		require.NoError(t, customer.Deactivate())

		err := customer.AuthorizeCharge(decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrCreditInactive)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		customer := newCustomerWithCredit(t, "100", "0")
		assert.Error(t, customer.AuthorizeCharge(decimal.Zero))
		assert.Error(t, customer.AuthorizeCharge(decimal.NewFromInt(-5)))
	})

	t.Run("does not mutate state", func(t *testing.T) {
		customer := newCustomerWithCredit(t, "10000", "3000")
		before := customer.CurrentBalance

		require.NoError(t, customer.AuthorizeCharge(decimal.NewFromInt(500)))
		assert.True(t, customer.CurrentBalance.Equal(before))
	})
}

func TestCustomerBalanceMutation(t *testing.T) {
	newCustomer := func(t *testing.T) *Customer {
		t.Helper()
		customer, err := NewCustomer("CUST-000020", "Harvest Distribution", "hd@example.com", BusinessTypeDistributor)
		require.NoError(t, err)
		require.NoError(t, customer.SetCreditLimit(decimal.NewFromInt(10000)))
		return customer
	}

	t.Run("debit increases balance and shrinks availability", func(t *testing.T) {
		customer := newCustomer(t)
		require.NoError(t, customer.Debit(decimal.NewFromInt(3000)))
		require.NoError(t, customer.Debit(decimal.NewFromInt(2000)))

		assert.True(t, customer.CurrentBalance.Equal(decimal.NewFromInt(5000)))
		assert.True(t, customer.AvailableCredit.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("payment floors balance at zero and reports excess", func(t *testing.T) {
		customer := newCustomer(t)
		require.NoError(t, customer.Debit(decimal.NewFromInt(5000)))

		excess, err := customer.ApplyPayment(decimal.NewFromInt(9000))
		require.NoError(t, err)
		assert.True(t, excess.Equal(decimal.NewFromInt(4000)))
		assert.True(t, customer.CurrentBalance.IsZero())
		assert.True(t, customer.AvailableCredit.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("payment never drives balance negative", func(t *testing.T) {
		customer := newCustomer(t)
		require.NoError(t, customer.Debit(decimal.NewFromInt(50)))

		_, err := customer.ApplyPayment(decimal.NewFromInt(80))
		require.NoError(t, err)
		assert.True(t, customer.CurrentBalance.IsZero())
		assert.False(t, customer.CurrentBalance.IsNegative())
	})

	t.Run("debit then equal payment restores original balance", func(t *testing.T) {
		customer := newCustomer(t)
		require.NoError(t, customer.Debit(decimal.NewFromInt(1500)))
		original := customer.CurrentBalance

		require.NoError(t, customer.Debit(decimal.NewFromInt(700)))
		excess, err := customer.ApplyPayment(decimal.NewFromInt(700))
		require.NoError(t, err)

		assert.True(t, excess.IsZero())
		assert.True(t, customer.CurrentBalance.Equal(original))
	})

	t.Run("availability invariant holds after every mutation", func(t *testing.T) {
		customer := newCustomer(t)
		steps := []func(){
			func() { _ = customer.Debit(decimal.NewFromInt(4000)) },
			func() { _, _ = customer.ApplyPayment(decimal.NewFromInt(1000)) },
			func() { _ = customer.SetCreditLimit(decimal.NewFromInt(2000)) },
			func() { _, _ = customer.ApplyPayment(decimal.NewFromInt(500)) },
		}
		for _, step := range steps {
			step()
			expected := AvailableCreditOf(customer.CreditLimit, customer.CurrentBalance)
			assert.True(t, customer.AvailableCredit.Equal(expected))
		}
	})
}

func TestCustomerRecordSale(t *testing.T) {
	customer, err := NewCustomer("CUST-000030", "Corner Bakery", "corner@example.com", BusinessTypeRetailer)
	require.NoError(t, err)

	now := time.Now()
	customer.RecordSale(decimal.NewFromInt(1000), now)
	customer.RecordSale(decimal.NewFromInt(3000), now.Add(time.Hour))

	assert.Equal(t, 2, customer.TotalOrders)
	assert.True(t, customer.TotalSalesAmount.Equal(decimal.NewFromInt(4000)))
	assert.True(t, customer.AverageOrderValue.Equal(decimal.NewFromInt(2000)))
	require.NotNil(t, customer.LastPurchaseAt)
	assert.True(t, customer.LastPurchaseAt.After(now))
}

func TestCustomerStatusTransitions(t *testing.T) {
	customer, err := NewCustomer("CUST-000040", "Test", "t@example.com", BusinessTypeOther)
	require.NoError(t, err)

	assert.Error(t, customer.Activate()) // already active
	require.NoError(t, customer.Suspend())
	assert.False(t, customer.CanTransactOnCredit())
	require.NoError(t, customer.Activate())
	assert.True(t, customer.CanTransactOnCredit())
	require.NoError(t, customer.Deactivate())
	assert.Error(t, customer.Deactivate())
}

func TestValidateClosedEnums(t *testing.T) {
	assert.NoError(t, ValidateBusinessType(BusinessTypeDistributor))
	assert.Error(t, ValidateBusinessType(BusinessType("agency")))
	assert.NoError(t, ValidateCreditStatus(CreditStatusBlocked))
	assert.Error(t, ValidateCreditStatus(CreditStatus("frozen")))
	assert.NoError(t, ValidateCustomerStatus(CustomerStatusInactive))
	assert.Error(t, ValidateCustomerStatus(CustomerStatus("closed")))
}
