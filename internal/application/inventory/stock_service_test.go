package inventory

import (
	"context"
	"testing"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindByCode(ctx context.Context, code string) (*inventory.Warehouse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindDefault(ctx context.Context) (*inventory.Warehouse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Warehouse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Warehouse), args.Get(1).(int64), args.Error(2)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, warehouse *inventory.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *MockWarehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type MockStockItemRepository struct {
	mock.Mock
}

func (m *MockStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByProduct(ctx context.Context, warehouseID uuid.UUID, productCode string, bagSizeKg decimal.Decimal) (*inventory.StockItem, error) {
	args := m.Called(ctx, warehouseID, productCode, bagSizeKg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, int64, error) {
	args := m.Called(ctx, warehouseID, filter)
	return args.Get(0).([]inventory.StockItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockItemRepository) FindBelowThreshold(ctx context.Context) ([]inventory.StockItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) TotalWeightKg(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, warehouseID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByStockItemID(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, int64, error) {
	args := m.Called(ctx, stockItemID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockMovementRepository) FindAll(ctx context.Context, filter inventory.StockMovementFilter) ([]inventory.StockMovement, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockMovement), args.Get(1).(int64), args.Error(2)
}

type MockTransferOrderRepository struct {
	mock.Mock
}

func (m *MockTransferOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.TransferOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.TransferOrder), args.Error(1)
}

func (m *MockTransferOrderRepository) FindByTransferNumber(ctx context.Context, transferNumber string) (*inventory.TransferOrder, error) {
	args := m.Called(ctx, transferNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.TransferOrder), args.Error(1)
}

func (m *MockTransferOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.TransferOrder, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.TransferOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransferOrderRepository) Save(ctx context.Context, transfer *inventory.TransferOrder) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferOrderRepository) SaveCompletion(ctx context.Context, completion inventory.TransferCompletion) error {
	args := m.Called(ctx, completion)
	return args.Error(0)
}

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

type stockFixture struct {
	warehouseRepo *MockWarehouseRepository
	stockRepo     *MockStockItemRepository
	movementRepo  *MockStockMovementRepository
	transferRepo  *MockTransferOrderRepository
	sequenceRepo  *MockSequenceRepository
	service       *StockService
	warehouse     *inventory.Warehouse
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	f := &stockFixture{
		warehouseRepo: new(MockWarehouseRepository),
		stockRepo:     new(MockStockItemRepository),
		movementRepo:  new(MockStockMovementRepository),
		transferRepo:  new(MockTransferOrderRepository),
		sequenceRepo:  new(MockSequenceRepository),
	}
	f.service = NewStockService(f.warehouseRepo, f.stockRepo, f.movementRepo, f.transferRepo, f.sequenceRepo)

	warehouse, err := inventory.NewWarehouse("MAIN", "Main Silo", decimal.NewFromInt(500000))
	require.NoError(t, err)
	f.warehouse = warehouse
	return f
}

func newStockedItem(t *testing.T, warehouseID uuid.UUID, bags int64) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(warehouseID, "FLOUR-T55", "Baladi Flour T55", decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, item.Increase(decimal.NewFromInt(bags)))
	item.ClearDomainEvents()
	return item
}

// =============================================================================
// Tests
// =============================================================================

func TestStockService_Inbound(t *testing.T) {
	ctx := context.Background()

	t.Run("creates stock item on first arrival", func(t *testing.T) {
		f := newStockFixture(t)
		f.warehouseRepo.On("FindByID", ctx, f.warehouse.ID).Return(f.warehouse, nil)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(nil, shared.ErrNotFound)
		f.stockRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockItem")).Return(nil)

		var recorded *inventory.StockMovement
		f.movementRepo.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).(*inventory.StockMovement)
			}).Return(nil)

		resp, err := f.service.Inbound(ctx, InboundRequest{
			WarehouseID: f.warehouse.ID,
			ProductCode: "FLOUR-T55",
			ProductName: "Baladi Flour T55",
			BagSizeKg:   decimal.NewFromInt(50),
			Quantity:    decimal.NewFromInt(200),
			SourceType:  "PURCHASE_ORDER",
		})

		require.NoError(t, err)
		assert.True(t, resp.QuantityOnHand.Equal(decimal.NewFromInt(200)))
		assert.True(t, resp.WeightKg.Equal(decimal.NewFromInt(10000)))
		require.NotNil(t, recorded)
		assert.Equal(t, inventory.MovementTypeIn, recorded.MovementType)
		assert.True(t, recorded.QuantityBefore.IsZero())
		assert.True(t, recorded.QuantityAfter.Equal(decimal.NewFromInt(200)))
		f.stockRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("inactive warehouse rejected", func(t *testing.T) {
		f := newStockFixture(t)
		require.NoError(t, f.warehouse.Deactivate())
		f.warehouseRepo.On("FindByID", ctx, f.warehouse.ID).Return(f.warehouse, nil)

		_, err := f.service.Inbound(ctx, InboundRequest{
			WarehouseID: f.warehouse.ID,
			ProductCode: "FLOUR-T55",
			BagSizeKg:   decimal.NewFromInt(50),
			Quantity:    decimal.NewFromInt(10),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "WAREHOUSE_INACTIVE", domainErr.Code)
	})
}

func TestStockService_Outbound(t *testing.T) {
	ctx := context.Background()

	t.Run("issues stock and records movement", func(t *testing.T) {
		f := newStockFixture(t)
		item := newStockedItem(t, f.warehouse.ID, 100)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(item, nil)
		f.stockRepo.On("SaveWithLock", ctx, item).Return(nil)
		f.movementRepo.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

		resp, err := f.service.Outbound(ctx, OutboundRequest{
			WarehouseID: f.warehouse.ID,
			ProductCode: "FLOUR-T55",
			BagSizeKg:   decimal.NewFromInt(50),
			Quantity:    decimal.NewFromInt(30),
			SourceType:  "SALES_ORDER",
		})

		require.NoError(t, err)
		assert.True(t, resp.QuantityOnHand.Equal(decimal.NewFromInt(70)))
	})

	t.Run("insufficient stock", func(t *testing.T) {
		f := newStockFixture(t)
		item := newStockedItem(t, f.warehouse.ID, 10)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(item, nil)

		_, err := f.service.Outbound(ctx, OutboundRequest{
			WarehouseID: f.warehouse.ID,
			ProductCode: "FLOUR-T55",
			BagSizeKg:   decimal.NewFromInt(50),
			Quantity:    decimal.NewFromInt(11),
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.movementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown product treated as insufficient", func(t *testing.T) {
		f := newStockFixture(t)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T00", decimal.NewFromInt(25)).
			Return(nil, shared.ErrNotFound)

		_, err := f.service.Outbound(ctx, OutboundRequest{
			WarehouseID: f.warehouse.ID,
			ProductCode: "FLOUR-T00",
			BagSizeKg:   decimal.NewFromInt(25),
			Quantity:    decimal.NewFromInt(1),
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("publishes low stock event", func(t *testing.T) {
		f := newStockFixture(t)
		publisher := new(MockEventPublisher)
		f.service.SetEventPublisher(publisher)

		item := newStockedItem(t, f.warehouse.ID, 20)
		require.NoError(t, item.SetLowStockThreshold(decimal.NewFromInt(10)))
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(item, nil)
		f.stockRepo.On("SaveWithLock", ctx, item).Return(nil)
		f.movementRepo.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == inventory.EventTypeStockBelowThreshold
		})).Return(nil)

		_, err := f.service.Outbound(ctx, OutboundRequest{
			WarehouseID: f.warehouse.ID,
			ProductCode: "FLOUR-T55",
			BagSizeKg:   decimal.NewFromInt(50),
			Quantity:    decimal.NewFromInt(12),
		})

		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("retries on version conflict", func(t *testing.T) {
		f := newStockFixture(t)
		item := newStockedItem(t, f.warehouse.ID, 100)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(item, nil)
		f.stockRepo.On("SaveWithLock", ctx, item).Return(shared.ErrConcurrencyConflict).Once()
		f.stockRepo.On("SaveWithLock", ctx, item).Return(nil).Once()
		f.movementRepo.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

		_, err := f.service.Outbound(ctx, OutboundRequest{
			WarehouseID: f.warehouse.ID,
			ProductCode: "FLOUR-T55",
			BagSizeKg:   decimal.NewFromInt(50),
			Quantity:    decimal.NewFromInt(5),
		})

		require.NoError(t, err)
		f.stockRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
	})
}

func TestStockService_Adjust(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	item := newStockedItem(t, f.warehouse.ID, 100)
	f.stockRepo.On("FindByID", ctx, item.ID).Return(item, nil)
	f.stockRepo.On("SaveWithLock", ctx, item).Return(nil)

	var recorded *inventory.StockMovement
	f.movementRepo.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*inventory.StockMovement)
		}).Return(nil)

	resp, err := f.service.Adjust(ctx, item.ID, AdjustStockRequest{
		Quantity: decimal.NewFromInt(95),
		Remark:   "stock taking 2026-08",
	})

	require.NoError(t, err)
	assert.True(t, resp.QuantityOnHand.Equal(decimal.NewFromInt(95)))
	require.NotNil(t, recorded)
	assert.Equal(t, inventory.MovementTypeAdjust, recorded.MovementType)
	assert.Equal(t, inventory.MovementSourceStockTaking, recorded.SourceType)
	assert.True(t, recorded.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestStockService_Transfers(t *testing.T) {
	ctx := context.Background()

	t.Run("create checks source stock", func(t *testing.T) {
		f := newStockFixture(t)
		dest, err := inventory.NewWarehouse("EAST", "East Store", decimal.NewFromInt(100000))
		require.NoError(t, err)

		item := newStockedItem(t, f.warehouse.ID, 10)
		f.warehouseRepo.On("FindByID", ctx, f.warehouse.ID).Return(f.warehouse, nil)
		f.warehouseRepo.On("FindByID", ctx, dest.ID).Return(dest, nil)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(item, nil)

		_, err = f.service.CreateTransfer(ctx, CreateTransferRequest{
			FromWarehouseID: f.warehouse.ID,
			ToWarehouseID:   dest.ID,
			ProductCode:     "FLOUR-T55",
			BagSizeKg:       decimal.NewFromInt(50),
			Quantity:        decimal.NewFromInt(11),
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.sequenceRepo.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
	})

	t.Run("complete commits both sides atomically", func(t *testing.T) {
		f := newStockFixture(t)
		dest, err := inventory.NewWarehouse("EAST", "East Store", decimal.NewFromInt(100000))
		require.NoError(t, err)

		transfer, err := inventory.NewTransferOrder("TR-2026-00001", f.warehouse.ID, dest.ID,
			"FLOUR-T55", decimal.NewFromInt(50), decimal.NewFromInt(40))
		require.NoError(t, err)

		sourceItem := newStockedItem(t, f.warehouse.ID, 100)
		destItem := newStockedItem(t, dest.ID, 5)

		f.transferRepo.On("FindByID", ctx, transfer.ID).Return(transfer, nil)
		f.warehouseRepo.On("FindByID", ctx, dest.ID).Return(dest, nil)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(sourceItem, nil)
		f.stockRepo.On("FindByProduct", ctx, dest.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(destItem, nil)

		var completion inventory.TransferCompletion
		f.transferRepo.On("SaveCompletion", ctx, mock.AnythingOfType("inventory.TransferCompletion")).
			Run(func(args mock.Arguments) {
				completion = args.Get(1).(inventory.TransferCompletion)
			}).Return(nil)

		resp, err := f.service.CompleteTransfer(ctx, transfer.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, string(inventory.TransferStatusCompleted), resp.Status)
		assert.True(t, completion.SourceItem.QuantityOnHand.Equal(decimal.NewFromInt(60)))
		assert.True(t, completion.DestItem.QuantityOnHand.Equal(decimal.NewFromInt(45)))
		assert.False(t, completion.DestItemCreated)
		require.Len(t, completion.Movements, 2)
		assert.Equal(t, inventory.MovementTypeOut, completion.Movements[0].MovementType)
		assert.Equal(t, inventory.MovementTypeIn, completion.Movements[1].MovementType)
		moved := completion.SourceItem.QuantityOnHand.Add(completion.DestItem.QuantityOnHand)
		assert.True(t, moved.Equal(decimal.NewFromInt(105)))
	})

	t.Run("complete creates the destination item on first arrival", func(t *testing.T) {
		f := newStockFixture(t)
		dest, err := inventory.NewWarehouse("EAST", "East Store", decimal.NewFromInt(100000))
		require.NoError(t, err)

		transfer, err := inventory.NewTransferOrder("TR-2026-00002", f.warehouse.ID, dest.ID,
			"FLOUR-T55", decimal.NewFromInt(50), decimal.NewFromInt(40))
		require.NoError(t, err)

		sourceItem := newStockedItem(t, f.warehouse.ID, 100)

		f.transferRepo.On("FindByID", ctx, transfer.ID).Return(transfer, nil)
		f.warehouseRepo.On("FindByID", ctx, dest.ID).Return(dest, nil)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(sourceItem, nil)
		f.stockRepo.On("FindByProduct", ctx, dest.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(nil, shared.ErrNotFound)

		var completion inventory.TransferCompletion
		f.transferRepo.On("SaveCompletion", ctx, mock.AnythingOfType("inventory.TransferCompletion")).
			Run(func(args mock.Arguments) {
				completion = args.Get(1).(inventory.TransferCompletion)
			}).Return(nil)

		_, err = f.service.CompleteTransfer(ctx, transfer.ID, nil)

		require.NoError(t, err)
		assert.True(t, completion.DestItemCreated)
		assert.Equal(t, "Baladi Flour T55", completion.DestItem.ProductName)
		assert.True(t, completion.DestItem.QuantityOnHand.Equal(decimal.NewFromInt(40)))
	})

	t.Run("complete applies nothing when the commit fails", func(t *testing.T) {
		f := newStockFixture(t)
		dest, err := inventory.NewWarehouse("EAST", "East Store", decimal.NewFromInt(100000))
		require.NoError(t, err)

		transfer, err := inventory.NewTransferOrder("TR-2026-00003", f.warehouse.ID, dest.ID,
			"FLOUR-T55", decimal.NewFromInt(50), decimal.NewFromInt(40))
		require.NoError(t, err)

		sourceItem := newStockedItem(t, f.warehouse.ID, 100)
		destItem := newStockedItem(t, dest.ID, 5)

		f.transferRepo.On("FindByID", ctx, transfer.ID).Return(transfer, nil)
		f.warehouseRepo.On("FindByID", ctx, dest.ID).Return(dest, nil)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(sourceItem, nil)
		f.stockRepo.On("FindByProduct", ctx, dest.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(destItem, nil)
		f.transferRepo.On("SaveCompletion", ctx, mock.AnythingOfType("inventory.TransferCompletion")).
			Return(assert.AnError)

		resp, err := f.service.CompleteTransfer(ctx, transfer.ID, nil)

		require.Error(t, err)
		assert.Nil(t, resp)
		f.transferRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.stockRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		f.stockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.movementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("complete retries on version conflict", func(t *testing.T) {
		f := newStockFixture(t)
		dest, err := inventory.NewWarehouse("EAST", "East Store", decimal.NewFromInt(100000))
		require.NoError(t, err)

		first, err := inventory.NewTransferOrder("TR-2026-00004", f.warehouse.ID, dest.ID,
			"FLOUR-T55", decimal.NewFromInt(50), decimal.NewFromInt(40))
		require.NoError(t, err)
		second, err := inventory.NewTransferOrder("TR-2026-00004", f.warehouse.ID, dest.ID,
			"FLOUR-T55", decimal.NewFromInt(50), decimal.NewFromInt(40))
		require.NoError(t, err)
		second.ID = first.ID

		f.transferRepo.On("FindByID", ctx, first.ID).Return(first, nil).Once()
		f.transferRepo.On("FindByID", ctx, first.ID).Return(second, nil).Once()
		f.warehouseRepo.On("FindByID", ctx, dest.ID).Return(dest, nil)
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(newStockedItem(t, f.warehouse.ID, 100), nil).Once()
		f.stockRepo.On("FindByProduct", ctx, dest.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(newStockedItem(t, dest.ID, 5), nil).Once()
		f.stockRepo.On("FindByProduct", ctx, f.warehouse.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(newStockedItem(t, f.warehouse.ID, 100), nil).Once()
		f.stockRepo.On("FindByProduct", ctx, dest.ID, "FLOUR-T55", decimal.NewFromInt(50)).
			Return(newStockedItem(t, dest.ID, 5), nil).Once()
		f.transferRepo.On("SaveCompletion", ctx, mock.AnythingOfType("inventory.TransferCompletion")).
			Return(shared.ErrConcurrencyConflict).Once()
		f.transferRepo.On("SaveCompletion", ctx, mock.AnythingOfType("inventory.TransferCompletion")).
			Return(nil).Once()

		resp, err := f.service.CompleteTransfer(ctx, first.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, string(inventory.TransferStatusCompleted), resp.Status)
		f.transferRepo.AssertNumberOfCalls(t, "SaveCompletion", 2)
	})
}
