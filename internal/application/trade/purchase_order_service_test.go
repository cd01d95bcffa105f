package trade

import (
	"context"
	"testing"

	inventoryapp "github.com/flourmill/backend/internal/application/inventory"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type purchaseFixture struct {
	orderRepo    *MockPurchaseOrderRepository
	sequenceRepo *MockSequenceRepository
	stockControl *MockStockControl
	service      *PurchaseOrderService
	warehouseID  uuid.UUID
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	f := &purchaseFixture{
		orderRepo:    new(MockPurchaseOrderRepository),
		sequenceRepo: new(MockSequenceRepository),
		stockControl: new(MockStockControl),
		warehouseID:  uuid.New(),
	}
	f.service = NewPurchaseOrderService(f.orderRepo, f.sequenceRepo, f.stockControl)
	return f
}

func (f *purchaseFixture) confirmedOrder(t *testing.T) *trade.PurchaseOrder {
	t.Helper()
	order, err := trade.NewPurchaseOrder("PO-2026-00003", "Delta Wheat Trading", f.warehouseID)
	require.NoError(t, err)
	_, err = order.AddItem("WHEAT-SOFT", "Soft Wheat", decimal.NewFromInt(50),
		decimal.NewFromInt(500), decimal.NewFromInt(80))
	require.NoError(t, err)
	_, err = order.AddItem("WHEAT-HARD", "Hard Wheat", decimal.NewFromInt(50),
		decimal.NewFromInt(200), decimal.NewFromInt(95))
	require.NoError(t, err)
	require.NoError(t, order.Confirm())
	order.ClearDomainEvents()
	return order
}

func TestPurchaseOrderService_Create(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t)

	f.sequenceRepo.On("Next", ctx, mock.AnythingOfType("string")).Return(int64(3), nil)
	f.orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.PurchaseOrder")).Return(nil)

	resp, err := f.service.Create(ctx, CreatePurchaseOrderRequest{
		SupplierName: "Delta Wheat Trading",
		WarehouseID:  f.warehouseID,
		Items: []PurchaseItemRequest{
			{ProductCode: "WHEAT-SOFT", ProductName: "Soft Wheat",
				BagSizeKg: decimal.NewFromInt(50), Quantity: decimal.NewFromInt(500),
				UnitCost: decimal.NewFromInt(80)},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, resp.OrderNumber, "PO-")
	assert.Contains(t, resp.OrderNumber, "00003")
	assert.Equal(t, string(trade.PurchaseOrderStatusDraft), resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(40000)))
}

func TestPurchaseOrderService_Receive(t *testing.T) {
	ctx := context.Background()

	t.Run("books every line into the warehouse", func(t *testing.T) {
		f := newPurchaseFixture(t)
		order := f.confirmedOrder(t)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Save", ctx, order).Return(nil)

		var received []inventoryapp.InboundRequest
		f.stockControl.On("Inbound", ctx, mock.AnythingOfType("inventory.InboundRequest")).
			Run(func(args mock.Arguments) {
				received = append(received, args.Get(1).(inventoryapp.InboundRequest))
			}).Return(stockResponse(), nil)

		resp, err := f.service.Receive(ctx, order.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, string(trade.PurchaseOrderStatusReceived), resp.Status)
		require.Len(t, received, 2)
		assert.Equal(t, "WHEAT-SOFT", received[0].ProductCode)
		assert.True(t, received[0].Quantity.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, "PURCHASE_ORDER", received[0].SourceType)
	})

	t.Run("draft order cannot be received", func(t *testing.T) {
		f := newPurchaseFixture(t)
		order, err := trade.NewPurchaseOrder("PO-2026-00004", "Delta Wheat Trading", f.warehouseID)
		require.NoError(t, err)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err = f.service.Receive(ctx, order.ID, nil)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		f.stockControl.AssertNotCalled(t, "Inbound", mock.Anything, mock.Anything)
	})

	t.Run("failed line keeps the order confirmed", func(t *testing.T) {
		f := newPurchaseFixture(t)
		order := f.confirmedOrder(t)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.stockControl.On("Inbound", ctx, mock.AnythingOfType("inventory.InboundRequest")).
			Return(stockResponse(), nil).Once()
		f.stockControl.On("Inbound", ctx, mock.AnythingOfType("inventory.InboundRequest")).
			Return(nil, shared.NewDomainError("WAREHOUSE_INACTIVE", "Warehouse does not accept movements")).Once()

		_, err := f.service.Receive(ctx, order.ID, nil)

		require.Error(t, err)
		assert.Equal(t, trade.PurchaseOrderStatusConfirmed, order.Status)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPurchaseOrderService_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t)
	order := f.confirmedOrder(t)

	f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	resp, err := f.service.Cancel(ctx, order.ID, CancelOrderRequest{Reason: "supplier out of stock"})

	require.NoError(t, err)
	assert.Equal(t, string(trade.PurchaseOrderStatusCancelled), resp.Status)
	assert.Equal(t, "supplier out of stock", resp.CancelReason)
}
