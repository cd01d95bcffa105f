package trade

import (
	"context"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	// FindByID finds a sales order (with items) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByOrderNumber finds a sales order by its number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)

	// FindByCustomerID lists orders for a customer
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]SalesOrder, int64, error)

	// FindAll lists orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, int64, error)

	// Save creates or updates a sales order and its items
	Save(ctx context.Context, order *SalesOrder) error
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order (with items) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by its number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindAll lists orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, int64, error)

	// Save creates or updates a purchase order and its items
	Save(ctx context.Context, order *PurchaseOrder) error
}
