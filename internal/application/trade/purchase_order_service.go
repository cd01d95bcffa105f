package trade

import (
	"context"

	inventoryapp "github.com/flourmill/backend/internal/application/inventory"
	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      trade.PurchaseOrderRepository
	sequenceRepo   partner.SequenceRepository
	stockControl   StockControl
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	sequenceRepo partner.SequenceRepository,
	stockControl StockControl,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		sequenceRepo: sequenceRepo,
		stockControl: stockControl,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PurchaseOrderService) publishDomainEvents(ctx context.Context, order *trade.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// Create creates a new draft purchase order with its lines
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	seq, err := s.sequenceRepo.Next(ctx, yearlySequence(partner.SequencePurchaseOrder))
	if err != nil {
		return nil, err
	}
	orderNumber := partner.FormatOrderNumber("PO", partner.CurrentYear(), seq)

	order, err := trade.NewPurchaseOrder(orderNumber, req.SupplierName, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		if _, err := order.AddItem(line.ProductCode, line.ProductName,
			line.BagSizeKg, line.Quantity, line.UnitCost); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		order.Remark = req.Remark
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Confirm confirms a draft purchase order, fixing its lines
func (s *PurchaseOrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Confirm(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Receive marks a confirmed order as received and books every line into
// the warehouse. Stock already received stays put if a later line
// fails; the order remains confirmed and receiving can be retried.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, operatorID *uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != trade.PurchaseOrderStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE", "Order cannot be received in its current status")
	}

	sourceID := order.ID.String()
	for _, item := range order.Items {
		if _, err := s.stockControl.Inbound(ctx, inventoryapp.InboundRequest{
			WarehouseID: order.WarehouseID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			BagSizeKg:   item.BagSizeKg,
			Quantity:    item.Quantity,
			SourceType:  string(inventory.MovementSourcePurchaseOrder),
			SourceID:    &sourceID,
			Remark:      "order " + order.OrderNumber,
			OperatorID:  operatorID,
		}); err != nil {
			return nil, err
		}
	}

	if err := order.Receive(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels a draft or confirmed purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List lists purchase orders matching the filter
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	orders, total, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses, total, nil
}
