package inventory

import (
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeIn     MovementType = "IN"
	MovementTypeOut    MovementType = "OUT"
	MovementTypeAdjust MovementType = "ADJUST"
)

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjust:
		return true
	}
	return false
}

// MovementSourceType identifies the document that caused a movement
type MovementSourceType string

const (
	MovementSourceSalesOrder    MovementSourceType = "SALES_ORDER"
	MovementSourcePurchaseOrder MovementSourceType = "PURCHASE_ORDER"
	MovementSourceTransfer      MovementSourceType = "TRANSFER"
	MovementSourceStockTaking   MovementSourceType = "STOCK_TAKING"
	MovementSourceManual        MovementSourceType = "MANUAL"
)

// IsValid returns true if the source type is valid
func (s MovementSourceType) IsValid() bool {
	switch s {
	case MovementSourceSalesOrder, MovementSourcePurchaseOrder, MovementSourceTransfer, MovementSourceStockTaking, MovementSourceManual:
		return true
	}
	return false
}

// StockMovement is an immutable record of a stock change at a warehouse
type StockMovement struct {
	shared.BaseEntity
	StockItemID    uuid.UUID
	WarehouseID    uuid.UUID
	ProductCode    string
	MovementType   MovementType
	Quantity       decimal.Decimal // always positive, direction from type
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	SourceType     MovementSourceType
	SourceID       *string
	Remark         string
	OperatorID     *uuid.UUID
	MovementDate   time.Time
}

// NewStockMovement creates a new movement record
func NewStockMovement(
	item *StockItem,
	movementType MovementType,
	quantity, quantityBefore, quantityAfter decimal.Decimal,
	sourceType MovementSourceType,
) (*StockMovement, error) {
	if item == nil {
		return nil, shared.NewDomainError("INVALID_STOCK_ITEM", "Stock item is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) && movementType != MovementTypeAdjust {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantityBefore.IsNegative() || quantityAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}

	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		StockItemID:    item.ID,
		WarehouseID:    item.WarehouseID,
		ProductCode:    item.ProductCode,
		MovementType:   movementType,
		Quantity:       quantity,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityAfter,
		SourceType:     sourceType,
		MovementDate:   time.Now(),
	}, nil
}

// WithSourceID sets the source document ID
func (m *StockMovement) WithSourceID(sourceID string) *StockMovement {
	m.SourceID = &sourceID
	return m
}

// WithRemark sets the remark
func (m *StockMovement) WithRemark(remark string) *StockMovement {
	m.Remark = remark
	return m
}

// WithOperatorID sets the operator who performed the movement
func (m *StockMovement) WithOperatorID(operatorID uuid.UUID) *StockMovement {
	m.OperatorID = &operatorID
	return m
}
