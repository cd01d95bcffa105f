package inventory

import (
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus represents the status of a warehouse transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// TransferOrder moves a quantity of one product between two warehouses.
// Completion posts an out movement at the source and an in movement at
// the destination within one transaction.
type TransferOrder struct {
	shared.BaseAggregateRoot
	TransferNumber  string
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	ProductCode     string
	BagSizeKg       decimal.Decimal
	Quantity        decimal.Decimal
	Status          TransferStatus
	Remark          string
	CompletedAt     *time.Time
	CancelledAt     *time.Time
}

// NewTransferOrder creates a pending transfer
func NewTransferOrder(transferNumber string, fromWarehouseID, toWarehouseID uuid.UUID, productCode string, bagSizeKg, quantity decimal.Decimal) (*TransferOrder, error) {
	if transferNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_NUMBER", "Transfer number cannot be empty")
	}
	if fromWarehouseID == uuid.Nil || toWarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Both warehouses are required")
	}
	if fromWarehouseID == toWarehouseID {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses must differ")
	}
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product code cannot be empty")
	}
	if bagSizeKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_BAG_SIZE", "Bag size must be positive")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &TransferOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransferNumber:    transferNumber,
		FromWarehouseID:   fromWarehouseID,
		ToWarehouseID:     toWarehouseID,
		ProductCode:       productCode,
		BagSizeKg:         bagSizeKg,
		Quantity:          quantity,
		Status:            TransferStatusPending,
	}, nil
}

// Complete marks the transfer as executed
func (t *TransferOrder) Complete() error {
	if t.Status != TransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Transfer is not pending")
	}

	now := time.Now()
	t.Status = TransferStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCompletedEvent(t))

	return nil
}

// Cancel cancels a pending transfer
func (t *TransferOrder) Cancel() error {
	if t.Status != TransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Transfer is not pending")
	}

	now := time.Now()
	t.Status = TransferStatusCancelled
	t.CancelledAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}
