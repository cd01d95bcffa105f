package inventory

import (
	"context"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	// FindByID finds a warehouse by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)

	// FindByCode finds a warehouse by its code
	FindByCode(ctx context.Context, code string) (*Warehouse, error)

	// FindDefault finds the default warehouse
	FindDefault(ctx context.Context) (*Warehouse, error)

	// FindAll lists warehouses matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, int64, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, warehouse *Warehouse) error

	// ExistsByCode checks whether a warehouse with the code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByID finds a stock item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindByProduct finds the stock item for a product and bag size at a warehouse
	FindByProduct(ctx context.Context, warehouseID uuid.UUID, productCode string, bagSizeKg decimal.Decimal) (*StockItem, error)

	// FindByWarehouse lists stock items at a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockItem, int64, error)

	// FindBelowThreshold lists items at or below their low-stock threshold
	FindBelowThreshold(ctx context.Context) ([]StockItem, error)

	// TotalWeightKg sums the stock weight at a warehouse in kilograms
	TotalWeightKg(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// SaveWithLock updates a stock item guarded by its version, returning
	// shared.ErrConcurrencyConflict when the stored version moved
	SaveWithLock(ctx context.Context, item *StockItem) error
}

// StockMovementFilter narrows movement history queries
type StockMovementFilter struct {
	shared.Filter
	WarehouseID  *uuid.UUID
	ProductCode  string
	MovementType *MovementType
	SourceType   *MovementSourceType
}

// StockMovementRepository defines the interface for movement records.
// Movements are append-only; there is no update or delete.
type StockMovementRepository interface {
	// Create persists a movement record
	Create(ctx context.Context, movement *StockMovement) error

	// FindByStockItemID lists movements for one stock item, newest first
	FindByStockItemID(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]StockMovement, int64, error)

	// FindAll lists movements matching the filter, newest first
	FindAll(ctx context.Context, filter StockMovementFilter) ([]StockMovement, int64, error)
}

// TransferCompletion is the write set a completed transfer persists:
// both stock items, one movement per side and the transfer itself.
// DestItemCreated marks a destination item seeing its first arrival.
type TransferCompletion struct {
	Transfer        *TransferOrder
	SourceItem      *StockItem
	DestItem        *StockItem
	DestItemCreated bool
	Movements       []*StockMovement
}

// TransferOrderRepository defines the interface for transfer order persistence
type TransferOrderRepository interface {
	// FindByID finds a transfer order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*TransferOrder, error)

	// FindByTransferNumber finds a transfer order by its number
	FindByTransferNumber(ctx context.Context, transferNumber string) (*TransferOrder, error)

	// FindAll lists transfer orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]TransferOrder, int64, error)

	// Save creates or updates a transfer order
	Save(ctx context.Context, transfer *TransferOrder) error

	// SaveCompletion persists the completion write set in one
	// transaction so quantity is conserved even on a mid-write crash.
	// Version-guarded item updates report shared.ErrConcurrencyConflict.
	SaveCompletion(ctx context.Context, completion TransferCompletion) error
}
