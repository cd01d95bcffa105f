package trade

import (
	"context"
	"testing"

	inventoryapp "github.com/flourmill/backend/internal/application/inventory"
	partnerapp "github.com/flourmill/backend/internal/application/partner"
	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mocks
// =============================================================================

type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SalesOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.SalesOrder, int64, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]trade.SalesOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.SalesOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByNumber(ctx context.Context, number string) (*partner.Customer, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByStatus(ctx context.Context, status partner.CustomerStatus, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByBusinessType(ctx context.Context, businessType partner.BusinessType, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, businessType, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, query, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	args := m.Called(ctx, nationalID)
	return args.Bool(0), args.Error(1)
}

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

type MockCreditLedger struct {
	mock.Mock
}

func (m *MockCreditLedger) Debit(ctx context.Context, customerID uuid.UUID, req partnerapp.DebitRequest) (*partnerapp.CreditTransactionResponse, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CreditTransactionResponse), args.Error(1)
}

func (m *MockCreditLedger) ApplyPayment(ctx context.Context, customerID uuid.UUID, req partnerapp.PaymentRequest) (*partnerapp.PaymentResponse, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.PaymentResponse), args.Error(1)
}

type MockStockControl struct {
	mock.Mock
}

func (m *MockStockControl) Inbound(ctx context.Context, req inventoryapp.InboundRequest) (*inventoryapp.StockItemResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StockItemResponse), args.Error(1)
}

func (m *MockStockControl) Outbound(ctx context.Context, req inventoryapp.OutboundRequest) (*inventoryapp.StockItemResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StockItemResponse), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

type salesFixture struct {
	orderRepo    *MockSalesOrderRepository
	customerRepo *MockCustomerRepository
	sequenceRepo *MockSequenceRepository
	creditLedger *MockCreditLedger
	stockControl *MockStockControl
	service      *SalesOrderService
	customer     *partner.Customer
	warehouseID  uuid.UUID
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	f := &salesFixture{
		orderRepo:    new(MockSalesOrderRepository),
		customerRepo: new(MockCustomerRepository),
		sequenceRepo: new(MockSequenceRepository),
		creditLedger: new(MockCreditLedger),
		stockControl: new(MockStockControl),
		warehouseID:  uuid.New(),
	}
	f.service = NewSalesOrderService(f.orderRepo, f.customerRepo, f.sequenceRepo, f.creditLedger, f.stockControl)

	customer, err := partner.NewCustomer("CUST-000001", "Nile Bakery", "orders@nilebakery.example", partner.BusinessTypeRetailer)
	require.NoError(t, err)
	require.NoError(t, customer.SetCreditLimit(decimal.NewFromInt(50000)))
	customer.ClearDomainEvents()
	f.customer = customer
	return f
}

func (f *salesFixture) draftOrder(t *testing.T, method trade.PaymentMethod) *trade.SalesOrder {
	t.Helper()
	order, err := trade.NewSalesOrder("SO-2026-00007", f.customer.ID, f.customer.Name, f.warehouseID, method)
	require.NoError(t, err)
	_, err = order.AddItem("FLOUR-T55", "Baladi Flour T55", decimal.NewFromInt(50),
		decimal.NewFromInt(100), decimal.NewFromInt(120), decimal.Zero)
	require.NoError(t, err)
	_, err = order.AddItem("BRAN-01", "Wheat Bran", decimal.NewFromInt(25),
		decimal.NewFromInt(40), decimal.NewFromInt(35), decimal.Zero)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func stockResponse() *inventoryapp.StockItemResponse {
	return &inventoryapp.StockItemResponse{ID: uuid.New()}
}

// =============================================================================
// Tests
// =============================================================================

func TestSalesOrderService_Create(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture(t)

	f.customerRepo.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
	f.sequenceRepo.On("Next", ctx, mock.MatchedBy(func(name string) bool {
		return name != ""
	})).Return(int64(7), nil)
	f.orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.SalesOrder")).Return(nil)

	resp, err := f.service.Create(ctx, CreateSalesOrderRequest{
		CustomerID:    f.customer.ID,
		WarehouseID:   f.warehouseID,
		PaymentMethod: "on_credit",
		Items: []OrderItemRequest{
			{ProductCode: "FLOUR-T55", ProductName: "Baladi Flour T55",
				BagSizeKg: decimal.NewFromInt(50), Quantity: decimal.NewFromInt(100),
				UnitPrice: decimal.NewFromInt(120)},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, resp.OrderNumber, "SO-")
	assert.Contains(t, resp.OrderNumber, "00007")
	assert.Equal(t, string(trade.OrderStatusDraft), resp.Status)
	assert.True(t, resp.PayableAmount.Equal(decimal.NewFromInt(12000)))
	assert.True(t, resp.TotalWeightKg.Equal(decimal.NewFromInt(5000)))
}

func TestSalesOrderService_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("cash order ships without touching the ledger", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.draftOrder(t, trade.PaymentMethodCash)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Save", ctx, order).Return(nil)
		f.customerRepo.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.customerRepo.On("Save", ctx, f.customer).Return(nil)
		f.stockControl.On("Outbound", ctx, mock.AnythingOfType("inventory.OutboundRequest")).
			Return(stockResponse(), nil).Twice()

		resp, err := f.service.Confirm(ctx, order.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, string(trade.OrderStatusConfirmed), resp.Status)
		f.creditLedger.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, 1, f.customer.TotalOrders)
	})

	t.Run("on-credit order charges the account first", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.draftOrder(t, trade.PaymentMethodOnCredit)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Save", ctx, order).Return(nil)
		f.customerRepo.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.customerRepo.On("Save", ctx, f.customer).Return(nil)
		f.creditLedger.On("Debit", ctx, f.customer.ID, mock.MatchedBy(func(req partnerapp.DebitRequest) bool {
			return req.Amount.Equal(order.PayableAmount) && req.Reference == order.OrderNumber
		})).Return(&partnerapp.CreditTransactionResponse{}, nil)
		f.stockControl.On("Outbound", ctx, mock.AnythingOfType("inventory.OutboundRequest")).
			Return(stockResponse(), nil).Twice()

		resp, err := f.service.Confirm(ctx, order.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, string(trade.OrderStatusConfirmed), resp.Status)
		f.creditLedger.AssertExpectations(t)
	})

	t.Run("refused charge blocks shipping", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.draftOrder(t, trade.PaymentMethodOnCredit)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.creditLedger.On("Debit", ctx, f.customer.ID, mock.AnythingOfType("partner.DebitRequest")).
			Return(nil, partner.NewInsufficientCreditError(decimal.NewFromInt(100)))

		_, err := f.service.Confirm(ctx, order.ID, nil)

		require.Error(t, err)
		assert.Equal(t, trade.OrderStatusDraft, order.Status)
		f.stockControl.AssertNotCalled(t, "Outbound", mock.Anything, mock.Anything)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("partial shipment rolls back stock and charge", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.draftOrder(t, trade.PaymentMethodOnCredit)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.creditLedger.On("Debit", ctx, f.customer.ID, mock.AnythingOfType("partner.DebitRequest")).
			Return(&partnerapp.CreditTransactionResponse{}, nil)
		f.creditLedger.On("ApplyPayment", ctx, f.customer.ID, mock.MatchedBy(func(req partnerapp.PaymentRequest) bool {
			return req.Amount.Equal(order.PayableAmount) && req.SourceType == "SALES_RETURN"
		})).Return(&partnerapp.PaymentResponse{}, nil)
		f.stockControl.On("Outbound", ctx, mock.AnythingOfType("inventory.OutboundRequest")).
			Return(stockResponse(), nil).Once()
		f.stockControl.On("Outbound", ctx, mock.AnythingOfType("inventory.OutboundRequest")).
			Return(nil, shared.ErrInsufficientStock).Once()
		f.stockControl.On("Inbound", ctx, mock.AnythingOfType("inventory.InboundRequest")).
			Return(stockResponse(), nil).Once()

		_, err := f.service.Confirm(ctx, order.ID, nil)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, trade.OrderStatusDraft, order.Status)
		f.stockControl.AssertExpectations(t)
		f.creditLedger.AssertExpectations(t)
	})

	t.Run("failed save restocks goods and reverses the charge", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.draftOrder(t, trade.PaymentMethodOnCredit)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Save", ctx, order).Return(assert.AnError)
		f.creditLedger.On("Debit", ctx, f.customer.ID, mock.AnythingOfType("partner.DebitRequest")).
			Return(&partnerapp.CreditTransactionResponse{}, nil)
		f.creditLedger.On("ApplyPayment", ctx, f.customer.ID, mock.MatchedBy(func(req partnerapp.PaymentRequest) bool {
			return req.Amount.Equal(order.PayableAmount) && req.SourceType == "SALES_RETURN"
		})).Return(&partnerapp.PaymentResponse{}, nil)
		f.stockControl.On("Outbound", ctx, mock.AnythingOfType("inventory.OutboundRequest")).
			Return(stockResponse(), nil).Twice()
		f.stockControl.On("Inbound", ctx, mock.AnythingOfType("inventory.InboundRequest")).
			Return(stockResponse(), nil).Twice()

		resp, err := f.service.Confirm(ctx, order.ID, nil)

		require.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, resp)
		f.stockControl.AssertExpectations(t)
		f.creditLedger.AssertExpectations(t)
		f.customerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("confirmed order cannot be confirmed again", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.draftOrder(t, trade.PaymentMethodCash)
		require.NoError(t, order.Confirm())
		order.ClearDomainEvents()

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := f.service.Confirm(ctx, order.ID, nil)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestSalesOrderService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("draft cancellation touches nothing else", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.draftOrder(t, trade.PaymentMethodOnCredit)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Save", ctx, order).Return(nil)

		resp, err := f.service.Cancel(ctx, order.ID, CancelOrderRequest{Reason: "customer changed mind"}, nil)

		require.NoError(t, err)
		assert.Equal(t, string(trade.OrderStatusCancelled), resp.Status)
		f.stockControl.AssertNotCalled(t, "Inbound", mock.Anything, mock.Anything)
		f.creditLedger.AssertNotCalled(t, "ApplyPayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed on-credit cancellation restocks and reverses", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.draftOrder(t, trade.PaymentMethodOnCredit)
		require.NoError(t, order.Confirm())
		order.ClearDomainEvents()

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Save", ctx, order).Return(nil)
		f.stockControl.On("Inbound", ctx, mock.AnythingOfType("inventory.InboundRequest")).
			Return(stockResponse(), nil).Twice()
		f.creditLedger.On("ApplyPayment", ctx, f.customer.ID, mock.MatchedBy(func(req partnerapp.PaymentRequest) bool {
			return req.Amount.Equal(order.PayableAmount)
		})).Return(&partnerapp.PaymentResponse{}, nil)

		resp, err := f.service.Cancel(ctx, order.ID, CancelOrderRequest{Reason: "duplicate entry"}, nil)

		require.NoError(t, err)
		assert.Equal(t, string(trade.OrderStatusCancelled), resp.Status)
		f.stockControl.AssertExpectations(t)
		f.creditLedger.AssertExpectations(t)
	})
}
