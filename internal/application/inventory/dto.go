package inventory

import (
	"time"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Warehouse DTOs
// =============================================================================

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code        string          `json:"code" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	CapacityKg  decimal.Decimal `json:"capacity_kg"`
	ManagerName string          `json:"manager_name" binding:"max=100"`
	Phone       string          `json:"phone" binding:"max=50"`
	Address     string          `json:"address" binding:"max=500"`
	IsDefault   bool            `json:"is_default"`
	Notes       string          `json:"notes"`
}

// UpdateWarehouseRequest represents a request to update a warehouse
type UpdateWarehouseRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	CapacityKg  *decimal.Decimal `json:"capacity_kg"`
	ManagerName *string          `json:"manager_name" binding:"omitempty,max=100"`
	Phone       *string          `json:"phone" binding:"omitempty,max=50"`
	Address     *string          `json:"address" binding:"omitempty,max=500"`
	Notes       *string          `json:"notes"`
}

// WarehouseResponse represents a warehouse in API responses.
// Utilization is derived from current stock weight at read time.
type WarehouseResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Status             string          `json:"status"`
	ManagerName        string          `json:"manager_name"`
	Phone              string          `json:"phone"`
	Address            string          `json:"address"`
	CapacityKg         decimal.Decimal `json:"capacity_kg"`
	StockWeightKg      decimal.Decimal `json:"stock_weight_kg"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
	IsDefault          bool            `json:"is_default"`
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// WarehouseListFilter represents filter options for the warehouse list
type WarehouseListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToWarehouseResponse converts a domain Warehouse plus its current stock weight
func ToWarehouseResponse(w *inventory.Warehouse, stockWeightKg decimal.Decimal) WarehouseResponse {
	return WarehouseResponse{
		ID:                 w.ID,
		Code:               w.Code,
		Name:               w.Name,
		Status:             string(w.Status),
		ManagerName:        w.ManagerName,
		Phone:              w.Phone,
		Address:            w.Address,
		CapacityKg:         w.CapacityKg,
		StockWeightKg:      stockWeightKg,
		UtilizationPercent: w.UtilizationPercent(stockWeightKg),
		IsDefault:          w.IsDefault,
		Notes:              w.Notes,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}

// =============================================================================
// Stock DTOs
// =============================================================================

// InboundRequest represents goods arriving at a warehouse
type InboundRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductCode string          `json:"product_code" binding:"required,max=50"`
	ProductName string          `json:"product_name" binding:"max=200"`
	BagSizeKg   decimal.Decimal `json:"bag_size_kg" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	SourceType  string          `json:"source_type" binding:"omitempty,oneof=PURCHASE_ORDER TRANSFER MANUAL"`
	SourceID    *string         `json:"source_id"`
	Remark      string          `json:"remark" binding:"max=500"`
	OperatorID  *uuid.UUID      `json:"-"`
}

// OutboundRequest represents goods leaving a warehouse
type OutboundRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductCode string          `json:"product_code" binding:"required,max=50"`
	BagSizeKg   decimal.Decimal `json:"bag_size_kg" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	SourceType  string          `json:"source_type" binding:"omitempty,oneof=SALES_ORDER TRANSFER MANUAL"`
	SourceID    *string         `json:"source_id"`
	Remark      string          `json:"remark" binding:"max=500"`
	OperatorID  *uuid.UUID      `json:"-"`
}

// AdjustStockRequest sets the counted quantity after stock taking
type AdjustStockRequest struct {
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Remark     string          `json:"remark" binding:"max=500"`
	OperatorID *uuid.UUID      `json:"-"`
}

// SetThresholdRequest sets the low-stock alert threshold for an item
type SetThresholdRequest struct {
	Threshold decimal.Decimal `json:"threshold" binding:"required"`
}

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	ProductCode       string          `json:"product_code"`
	ProductName       string          `json:"product_name"`
	BagSizeKg         decimal.Decimal `json:"bag_size_kg"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	WeightKg          decimal.Decimal `json:"weight_kg"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	BelowThreshold    bool            `json:"below_threshold"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// StockListFilter represents filter options for the stock list
type StockListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StockMovementResponse represents a movement record in API responses
type StockMovementResponse struct {
	ID             uuid.UUID       `json:"id"`
	StockItemID    uuid.UUID       `json:"stock_item_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ProductCode    string          `json:"product_code"`
	MovementType   string          `json:"movement_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	SourceType     string          `json:"source_type"`
	SourceID       *string         `json:"source_id"`
	Remark         string          `json:"remark"`
	OperatorID     *uuid.UUID      `json:"operator_id"`
	MovementDate   time.Time       `json:"movement_date"`
}

// MovementListFilter represents filter options for the movement history
type MovementListFilter struct {
	WarehouseID  *uuid.UUID `form:"warehouse_id"`
	ProductCode  string     `form:"product_code"`
	MovementType string     `form:"movement_type" binding:"omitempty,oneof=IN OUT ADJUST"`
	SourceType   string     `form:"source_type" binding:"omitempty,oneof=SALES_ORDER PURCHASE_ORDER TRANSFER STOCK_TAKING MANUAL"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToStockItemResponse converts a domain StockItem
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:                item.ID,
		WarehouseID:       item.WarehouseID,
		ProductCode:       item.ProductCode,
		ProductName:       item.ProductName,
		BagSizeKg:         item.BagSizeKg,
		QuantityOnHand:    item.QuantityOnHand,
		WeightKg:          item.WeightKg(),
		LowStockThreshold: item.LowStockThreshold,
		BelowThreshold:    item.IsBelowThreshold(),
		UpdatedAt:         item.UpdatedAt,
		Version:           item.Version,
	}
}

// ToStockItemResponses converts a slice of domain StockItems
func ToStockItemResponses(items []inventory.StockItem) []StockItemResponse {
	responses := make([]StockItemResponse, len(items))
	for i := range items {
		responses[i] = ToStockItemResponse(&items[i])
	}
	return responses
}

// ToStockMovementResponse converts a domain StockMovement
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:             m.ID,
		StockItemID:    m.StockItemID,
		WarehouseID:    m.WarehouseID,
		ProductCode:    m.ProductCode,
		MovementType:   string(m.MovementType),
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		SourceType:     string(m.SourceType),
		SourceID:       m.SourceID,
		Remark:         m.Remark,
		OperatorID:     m.OperatorID,
		MovementDate:   m.MovementDate,
	}
}

// ToStockMovementResponses converts a slice of domain StockMovements
func ToStockMovementResponses(movements []inventory.StockMovement) []StockMovementResponse {
	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses
}

// =============================================================================
// Transfer DTOs
// =============================================================================

// CreateTransferRequest represents a request to move stock between warehouses
type CreateTransferRequest struct {
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id" binding:"required"`
	ProductCode     string          `json:"product_code" binding:"required,max=50"`
	BagSizeKg       decimal.Decimal `json:"bag_size_kg" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Remark          string          `json:"remark" binding:"max=500"`
	OperatorID      *uuid.UUID      `json:"-"`
}

// TransferOrderResponse represents a transfer order in API responses
type TransferOrderResponse struct {
	ID              uuid.UUID       `json:"id"`
	TransferNumber  string          `json:"transfer_number"`
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id"`
	ProductCode     string          `json:"product_code"`
	BagSizeKg       decimal.Decimal `json:"bag_size_kg"`
	Quantity        decimal.Decimal `json:"quantity"`
	Status          string          `json:"status"`
	Remark          string          `json:"remark"`
	CompletedAt     *time.Time      `json:"completed_at"`
	CancelledAt     *time.Time      `json:"cancelled_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToTransferOrderResponse converts a domain TransferOrder
func ToTransferOrderResponse(t *inventory.TransferOrder) TransferOrderResponse {
	return TransferOrderResponse{
		ID:              t.ID,
		TransferNumber:  t.TransferNumber,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		ProductCode:     t.ProductCode,
		BagSizeKg:       t.BagSizeKg,
		Quantity:        t.Quantity,
		Status:          string(t.Status),
		Remark:          t.Remark,
		CompletedAt:     t.CompletedAt,
		CancelledAt:     t.CancelledAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ToTransferOrderResponses converts a slice of domain TransferOrders
func ToTransferOrderResponses(transfers []inventory.TransferOrder) []TransferOrderResponse {
	responses := make([]TransferOrderResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToTransferOrderResponse(&transfers[i])
	}
	return responses
}
