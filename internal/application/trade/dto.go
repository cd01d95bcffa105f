package trade

import (
	"time"

	"github.com/flourmill/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Sales Order DTOs
// =============================================================================

// OrderItemRequest represents a line item when creating an order
type OrderItemRequest struct {
	ProductCode  string          `json:"product_code" binding:"required,max=50"`
	ProductName  string          `json:"product_name" binding:"required,max=200"`
	BagSizeKg    decimal.Decimal `json:"bag_size_kg" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	LineDiscount decimal.Decimal `json:"line_discount"`
}

// CreateSalesOrderRequest represents a request to create a sales order
type CreateSalesOrderRequest struct {
	CustomerID    uuid.UUID          `json:"customer_id" binding:"required"`
	WarehouseID   uuid.UUID          `json:"warehouse_id" binding:"required"`
	PaymentMethod string             `json:"payment_method" binding:"required,oneof=cash transfer on_credit"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      *decimal.Decimal   `json:"discount"`
	TaxRate       *decimal.Decimal   `json:"tax_rate"`
	Remark        string             `json:"remark" binding:"max=500"`
	OperatorID    *uuid.UUID         `json:"-"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SalesOrderItemResponse represents an order line in API responses
type SalesOrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	BagSizeKg    decimal.Decimal `json:"bag_size_kg"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineDiscount decimal.Decimal `json:"line_discount"`
	Amount       decimal.Decimal `json:"amount"`
	WeightKg     decimal.Decimal `json:"weight_kg"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID             uuid.UUID                `json:"id"`
	OrderNumber    string                   `json:"order_number"`
	CustomerID     uuid.UUID                `json:"customer_id"`
	CustomerName   string                   `json:"customer_name"`
	WarehouseID    uuid.UUID                `json:"warehouse_id"`
	PaymentMethod  string                   `json:"payment_method"`
	Items          []SalesOrderItemResponse `json:"items"`
	TotalAmount    decimal.Decimal          `json:"total_amount"`
	DiscountAmount decimal.Decimal          `json:"discount_amount"`
	TaxRate        decimal.Decimal          `json:"tax_rate"`
	TaxAmount      decimal.Decimal          `json:"tax_amount"`
	PayableAmount  decimal.Decimal          `json:"payable_amount"`
	TotalWeightKg  decimal.Decimal          `json:"total_weight_kg"`
	Status         string                   `json:"status"`
	Remark         string                   `json:"remark"`
	ConfirmedAt    *time.Time               `json:"confirmed_at"`
	CancelledAt    *time.Time               `json:"cancelled_at"`
	CancelReason   string                   `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// SalesOrderListItemResponse represents a list row for sales orders
type SalesOrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	PaymentMethod string          `json:"payment_method"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SalesOrderListFilter represents filter options for the order list
type SalesOrderListFilter struct {
	Search        string `form:"search"`
	Status        string `form:"status" binding:"omitempty,oneof=DRAFT CONFIRMED CANCELLED"`
	PaymentMethod string `form:"payment_method" binding:"omitempty,oneof=cash transfer on_credit"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSalesOrderResponse converts a domain SalesOrder to SalesOrderResponse
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = SalesOrderItemResponse{
			ID:           item.ID,
			ProductCode:  item.ProductCode,
			ProductName:  item.ProductName,
			BagSizeKg:    item.BagSizeKg,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineDiscount: item.LineDiscount,
			Amount:       item.Amount,
			WeightKg:     item.WeightKg,
		}
	}

	return SalesOrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		CustomerName:   o.CustomerName,
		WarehouseID:    o.WarehouseID,
		PaymentMethod:  string(o.PaymentMethod),
		Items:          items,
		TotalAmount:    o.TotalAmount,
		DiscountAmount: o.DiscountAmount,
		TaxRate:        o.TaxRate,
		TaxAmount:      o.TaxAmount,
		PayableAmount:  o.PayableAmount,
		TotalWeightKg:  o.TotalWeightKg(),
		Status:         string(o.Status),
		Remark:         o.Remark,
		ConfirmedAt:    o.ConfirmedAt,
		CancelledAt:    o.CancelledAt,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToSalesOrderListItemResponse converts a domain SalesOrder to a list row
func ToSalesOrderListItemResponse(o *trade.SalesOrder) SalesOrderListItemResponse {
	return SalesOrderListItemResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		PaymentMethod: string(o.PaymentMethod),
		PayableAmount: o.PayableAmount,
		TotalWeightKg: o.TotalWeightKg(),
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

// ToSalesOrderListItemResponses converts a slice of domain SalesOrders
func ToSalesOrderListItemResponses(orders []trade.SalesOrder) []SalesOrderListItemResponse {
	responses := make([]SalesOrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToSalesOrderListItemResponse(&orders[i])
	}
	return responses
}

// =============================================================================
// Purchase Order DTOs
// =============================================================================

// PurchaseItemRequest represents a line item when creating a purchase order
type PurchaseItemRequest struct {
	ProductCode string          `json:"product_code" binding:"required,max=50"`
	ProductName string          `json:"product_name" binding:"required,max=200"`
	BagSizeKg   decimal.Decimal `json:"bag_size_kg" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierName string                `json:"supplier_name" binding:"required,max=200"`
	WarehouseID  uuid.UUID             `json:"warehouse_id" binding:"required"`
	Items        []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
	Remark       string                `json:"remark" binding:"max=500"`
	OperatorID   *uuid.UUID            `json:"-"`
}

// PurchaseOrderItemResponse represents a purchase line in API responses
type PurchaseOrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	BagSizeKg   decimal.Decimal `json:"bag_size_kg"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Amount      decimal.Decimal `json:"amount"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierName string                      `json:"supplier_name"`
	WarehouseID  uuid.UUID                   `json:"warehouse_id"`
	Items        []PurchaseOrderItemResponse `json:"items"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Status       string                      `json:"status"`
	Remark       string                      `json:"remark"`
	ConfirmedAt  *time.Time                  `json:"confirmed_at"`
	ReceivedAt   *time.Time                  `json:"received_at"`
	CancelledAt  *time.Time                  `json:"cancelled_at"`
	CancelReason string                      `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// PurchaseOrderListFilter represents filter options for the purchase list
type PurchaseOrderListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT CONFIRMED RECEIVED CANCELLED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder
func ToPurchaseOrderResponse(o *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:          item.ID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			BagSizeKg:   item.BagSizeKg,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
			Amount:      item.Amount,
		}
	}

	return PurchaseOrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		SupplierName: o.SupplierName,
		WarehouseID:  o.WarehouseID,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		Status:       string(o.Status),
		Remark:       o.Remark,
		ConfirmedAt:  o.ConfirmedAt,
		ReceivedAt:   o.ReceivedAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToPurchaseOrderResponses converts a slice of domain PurchaseOrders
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses
}
