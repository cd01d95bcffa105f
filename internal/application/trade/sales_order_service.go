package trade

import (
	"context"
	"errors"
	"fmt"

	inventoryapp "github.com/flourmill/backend/internal/application/inventory"
	partnerapp "github.com/flourmill/backend/internal/application/partner"
	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditLedger is the slice of the credit account the order flow needs:
// charge on confirmation, reverse on cancellation.
type CreditLedger interface {
	Debit(ctx context.Context, customerID uuid.UUID, req partnerapp.DebitRequest) (*partnerapp.CreditTransactionResponse, error)
	ApplyPayment(ctx context.Context, customerID uuid.UUID, req partnerapp.PaymentRequest) (*partnerapp.PaymentResponse, error)
}

// StockControl is the slice of the stock service the order flow needs
type StockControl interface {
	Inbound(ctx context.Context, req inventoryapp.InboundRequest) (*inventoryapp.StockItemResponse, error)
	Outbound(ctx context.Context, req inventoryapp.OutboundRequest) (*inventoryapp.StockItemResponse, error)
}

// SalesOrderService handles sales order business operations
type SalesOrderService struct {
	orderRepo      trade.SalesOrderRepository
	customerRepo   partner.CustomerRepository
	sequenceRepo   partner.SequenceRepository
	creditLedger   CreditLedger
	stockControl   StockControl
	eventPublisher shared.EventPublisher
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orderRepo trade.SalesOrderRepository,
	customerRepo partner.CustomerRepository,
	sequenceRepo partner.SequenceRepository,
	creditLedger CreditLedger,
	stockControl StockControl,
) *SalesOrderService {
	return &SalesOrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		sequenceRepo: sequenceRepo,
		creditLedger: creditLedger,
		stockControl: stockControl,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SalesOrderService) publishDomainEvents(ctx context.Context, order *trade.SalesOrder) {
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

// Create creates a new draft sales order with its lines
func (s *SalesOrderService) Create(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	seq, err := s.sequenceRepo.Next(ctx, yearlySequence(partner.SequenceSalesOrder))
	if err != nil {
		return nil, err
	}
	orderNumber := partner.FormatOrderNumber("SO", partner.CurrentYear(), seq)

	order, err := trade.NewSalesOrder(orderNumber, customer.ID, customer.Name,
		req.WarehouseID, trade.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		lineDiscount := line.LineDiscount
		if _, err := order.AddItem(line.ProductCode, line.ProductName,
			line.BagSizeKg, line.Quantity, line.UnitPrice, lineDiscount); err != nil {
			return nil, err
		}
	}
	if req.Discount != nil {
		if err := order.SetDiscount(*req.Discount); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := order.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// Confirm confirms a draft order: on-credit orders pass the credit gate
// first, then every line ships from the warehouse. A failure anywhere
// rolls back what already happened, so the order either confirms with
// stock and ledger in agreement or stays a draft.
func (s *SalesOrderService) Confirm(ctx context.Context, orderID uuid.UUID, operatorID *uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != trade.OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Order cannot be confirmed in its current status")
	}
	if len(order.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Cannot confirm an order with no items")
	}

	sourceID := order.ID.String()

	if order.IsOnCredit() {
		if _, err := s.creditLedger.Debit(ctx, order.CustomerID, partnerapp.DebitRequest{
			Amount:     order.PayableAmount,
			SourceType: string(partner.CreditSourceTypeSalesOrder),
			SourceID:   &sourceID,
			Reference:  order.OrderNumber,
			OperatorID: operatorID,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.shipItems(ctx, order, sourceID, operatorID); err != nil {
		if order.IsOnCredit() {
			s.reverseCharge(ctx, order, sourceID, operatorID,
				"order "+order.OrderNumber+" failed to ship")
		}
		return nil, err
	}

	if err := order.Confirm(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		// The order stays a draft, so the goods and the charge go back too
		s.restoreItems(ctx, order, order.Items, sourceID, operatorID)
		if order.IsOnCredit() {
			s.reverseCharge(ctx, order, sourceID, operatorID,
				"order "+order.OrderNumber+" failed to save")
		}
		return nil, err
	}

	s.recordSale(ctx, order)
	s.publishDomainEvents(ctx, order)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// shipItems moves every line out of the warehouse. On failure the lines
// already shipped go back so stock stays consistent.
func (s *SalesOrderService) shipItems(ctx context.Context, order *trade.SalesOrder, sourceID string, operatorID *uuid.UUID) error {
	shipped := make([]trade.SalesOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if _, err := s.stockControl.Outbound(ctx, inventoryapp.OutboundRequest{
			WarehouseID: order.WarehouseID,
			ProductCode: item.ProductCode,
			BagSizeKg:   item.BagSizeKg,
			Quantity:    item.Quantity,
			SourceType:  string(inventory.MovementSourceSalesOrder),
			SourceID:    &sourceID,
			Remark:      "order " + order.OrderNumber,
			OperatorID:  operatorID,
		}); err != nil {
			s.restoreItems(ctx, order, shipped, sourceID, operatorID)
			if errors.Is(err, shared.ErrInsufficientStock) {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Not enough stock for %s (%s kg bags)", item.ProductCode, item.BagSizeKg))
			}
			return err
		}
		shipped = append(shipped, item)
	}
	return nil
}

func (s *SalesOrderService) restoreItems(ctx context.Context, order *trade.SalesOrder, items []trade.SalesOrderItem, sourceID string, operatorID *uuid.UUID) {
	for _, item := range items {
		_, _ = s.stockControl.Inbound(ctx, inventoryapp.InboundRequest{
			WarehouseID: order.WarehouseID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			BagSizeKg:   item.BagSizeKg,
			Quantity:    item.Quantity,
			SourceType:  string(inventory.MovementSourceSalesOrder),
			SourceID:    &sourceID,
			Remark:      "order " + order.OrderNumber + " reversal",
			OperatorID:  operatorID,
		})
	}
}

func (s *SalesOrderService) reverseCharge(ctx context.Context, order *trade.SalesOrder, sourceID string, operatorID *uuid.UUID, remark string) {
	_, _ = s.creditLedger.ApplyPayment(ctx, order.CustomerID, partnerapp.PaymentRequest{
		Amount:     order.PayableAmount,
		SourceType: string(partner.CreditSourceTypeSalesReturn),
		SourceID:   &sourceID,
		Reference:  order.OrderNumber,
		Remark:     remark,
		OperatorID: operatorID,
	})
}

func (s *SalesOrderService) recordSale(ctx context.Context, order *trade.SalesOrder) {
	customer, err := s.customerRepo.FindByID(ctx, order.CustomerID)
	if err != nil {
		return
	}
	customer.RecordSale(order.PayableAmount, *order.ConfirmedAt)
	_ = s.customerRepo.Save(ctx, customer)
}

// Cancel cancels an order. Cancelling a confirmed order returns the
// goods to the warehouse and reverses the credit charge.
func (s *SalesOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest, operatorID *uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	wasConfirmed := order.Status == trade.OrderStatusConfirmed

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if wasConfirmed {
		sourceID := order.ID.String()
		s.restoreItems(ctx, order, order.Items, sourceID, operatorID)
		if order.IsOnCredit() {
			s.reverseCharge(ctx, order, sourceID, operatorID,
				"order "+order.OrderNumber+" cancelled")
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// UpdateItemQuantity changes a line quantity on a draft order
func (s *SalesOrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity decimal.Decimal) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// RemoveItem deletes a line from a draft order
func (s *SalesOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a sales order by its number
func (s *SalesOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// List lists sales orders matching the filter
func (s *SalesOrderService) List(ctx context.Context, filter SalesOrderListFilter) ([]SalesOrderListItemResponse, int64, error) {
	domainFilter := salesOrderFilter(filter)
	orders, total, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSalesOrderListItemResponses(orders), total, nil
}

// ListByCustomer lists a customer's sales orders
func (s *SalesOrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter SalesOrderListFilter) ([]SalesOrderListItemResponse, int64, error) {
	domainFilter := salesOrderFilter(filter)
	orders, total, err := s.orderRepo.FindByCustomerID(ctx, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSalesOrderListItemResponses(orders), total, nil
}

func salesOrderFilter(filter SalesOrderListFilter) shared.Filter {
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
	if filter.PaymentMethod != "" {
		domainFilter.Filters["payment_method"] = filter.PaymentMethod
	}
	return domainFilter
}

// yearlySequence scopes a sequence name to the current year so document
// numbers restart each January
func yearlySequence(name string) string {
	return fmt.Sprintf("%s_%d", name, partner.CurrentYear())
}
