package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// maxSaveAttempts bounds the reload-and-retry loop on version conflicts
const maxSaveAttempts = 3

// StockService handles stock levels, movement history and warehouse transfers
type StockService struct {
	warehouseRepo  inventory.WarehouseRepository
	stockRepo      inventory.StockItemRepository
	movementRepo   inventory.StockMovementRepository
	transferRepo   inventory.TransferOrderRepository
	sequenceRepo   partner.SequenceRepository
	eventPublisher shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(
	warehouseRepo inventory.WarehouseRepository,
	stockRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	transferRepo inventory.TransferOrderRepository,
	sequenceRepo partner.SequenceRepository,
) *StockService {
	return &StockService{
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		movementRepo:  movementRepo,
		transferRepo:  transferRepo,
		sequenceRepo:  sequenceRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *StockService) publishDomainEvents(ctx context.Context, item *inventory.StockItem) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

func (s *StockService) requireActiveWarehouse(ctx context.Context, warehouseID uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if !warehouse.IsActive() {
		return shared.NewDomainError("WAREHOUSE_INACTIVE", "Warehouse does not accept movements")
	}
	return nil
}

// Inbound receives goods into a warehouse, creating the stock item on
// first arrival, and records the movement.
func (s *StockService) Inbound(ctx context.Context, req InboundRequest) (*StockItemResponse, error) {
	if err := s.requireActiveWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	sourceType := inventory.MovementSourceManual
	if req.SourceType != "" {
		sourceType = inventory.MovementSourceType(req.SourceType)
	}

	for attempt := 1; ; attempt++ {
		created := false
		item, err := s.stockRepo.FindByProduct(ctx, req.WarehouseID, req.ProductCode, req.BagSizeKg)
		if errors.Is(err, shared.ErrNotFound) {
			item, err = inventory.NewStockItem(req.WarehouseID, req.ProductCode, req.ProductName, req.BagSizeKg)
			created = true
		}
		if err != nil {
			return nil, err
		}

		before := item.QuantityOnHand
		if err := item.Increase(req.Quantity); err != nil {
			return nil, err
		}

		movement, err := inventory.NewStockMovement(item, inventory.MovementTypeIn,
			req.Quantity, before, item.QuantityOnHand, sourceType)
		if err != nil {
			return nil, err
		}
		applyMovementOptions(movement, req.SourceID, req.Remark, req.OperatorID)

		// A version-guarded update can never match a row that does not
		// exist yet, so first arrivals go through a plain save.
		if created {
			err = s.stockRepo.Save(ctx, item)
		} else {
			err = s.stockRepo.SaveWithLock(ctx, item)
		}
		if err == nil {
			if err := s.movementRepo.Create(ctx, movement); err != nil {
				return nil, err
			}
			s.publishDomainEvents(ctx, item)
			response := ToStockItemResponse(item)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= maxSaveAttempts {
			return nil, err
		}
	}
}

// Outbound issues goods out of a warehouse and records the movement.
// Stock never goes negative; insufficient stock fails the whole call.
func (s *StockService) Outbound(ctx context.Context, req OutboundRequest) (*StockItemResponse, error) {
	sourceType := inventory.MovementSourceManual
	if req.SourceType != "" {
		sourceType = inventory.MovementSourceType(req.SourceType)
	}

	for attempt := 1; ; attempt++ {
		item, err := s.stockRepo.FindByProduct(ctx, req.WarehouseID, req.ProductCode, req.BagSizeKg)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrInsufficientStock
			}
			return nil, err
		}

		before := item.QuantityOnHand
		if err := item.Decrease(req.Quantity); err != nil {
			return nil, err
		}

		movement, err := inventory.NewStockMovement(item, inventory.MovementTypeOut,
			req.Quantity, before, item.QuantityOnHand, sourceType)
		if err != nil {
			return nil, err
		}
		applyMovementOptions(movement, req.SourceID, req.Remark, req.OperatorID)

		err = s.stockRepo.SaveWithLock(ctx, item)
		if err == nil {
			if err := s.movementRepo.Create(ctx, movement); err != nil {
				return nil, err
			}
			s.publishDomainEvents(ctx, item)
			response := ToStockItemResponse(item)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= maxSaveAttempts {
			return nil, err
		}
	}
}

// Adjust sets the counted quantity after stock taking and records the
// delta as an ADJUST movement.
func (s *StockService) Adjust(ctx context.Context, stockItemID uuid.UUID, req AdjustStockRequest) (*StockItemResponse, error) {
	for attempt := 1; ; attempt++ {
		item, err := s.stockRepo.FindByID(ctx, stockItemID)
		if err != nil {
			return nil, err
		}

		before := item.QuantityOnHand
		if err := item.AdjustTo(req.Quantity); err != nil {
			return nil, err
		}

		delta := item.QuantityOnHand.Sub(before).Abs()
		movement, err := inventory.NewStockMovement(item, inventory.MovementTypeAdjust,
			delta, before, item.QuantityOnHand, inventory.MovementSourceStockTaking)
		if err != nil {
			return nil, err
		}
		applyMovementOptions(movement, nil, req.Remark, req.OperatorID)

		err = s.stockRepo.SaveWithLock(ctx, item)
		if err == nil {
			if err := s.movementRepo.Create(ctx, movement); err != nil {
				return nil, err
			}
			s.publishDomainEvents(ctx, item)
			response := ToStockItemResponse(item)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= maxSaveAttempts {
			return nil, err
		}
	}
}

// SetThreshold sets the low-stock alert threshold for a stock item
func (s *StockService) SetThreshold(ctx context.Context, stockItemID uuid.UUID, req SetThresholdRequest) (*StockItemResponse, error) {
	item, err := s.stockRepo.FindByID(ctx, stockItemID)
	if err != nil {
		return nil, err
	}

	if err := item.SetLowStockThreshold(req.Threshold); err != nil {
		return nil, err
	}

	if err := s.stockRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToStockItemResponse(item)
	return &response, nil
}

// GetStockItem retrieves a stock item by ID
func (s *StockService) GetStockItem(ctx context.Context, stockItemID uuid.UUID) (*StockItemResponse, error) {
	item, err := s.stockRepo.FindByID(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	response := ToStockItemResponse(item)
	return &response, nil
}

// ListByWarehouse lists the stock at a warehouse
func (s *StockService) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter StockListFilter) ([]StockItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "product_code",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	items, total, err := s.stockRepo.FindByWarehouse(ctx, warehouseID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStockItemResponses(items), total, nil
}

// ListBelowThreshold lists all items at or below their alert threshold
func (s *StockService) ListBelowThreshold(ctx context.Context) ([]StockItemResponse, error) {
	items, err := s.stockRepo.FindBelowThreshold(ctx)
	if err != nil {
		return nil, err
	}
	return ToStockItemResponses(items), nil
}

// ListMovements lists movement history matching the filter, newest first
func (s *StockService) ListMovements(ctx context.Context, filter MovementListFilter) ([]StockMovementResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := inventory.StockMovementFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "movement_date",
			OrderDir: "desc",
		},
		WarehouseID: filter.WarehouseID,
		ProductCode: filter.ProductCode,
	}
	if filter.MovementType != "" {
		movementType := inventory.MovementType(filter.MovementType)
		domainFilter.MovementType = &movementType
	}
	if filter.SourceType != "" {
		sourceType := inventory.MovementSourceType(filter.SourceType)
		domainFilter.SourceType = &sourceType
	}

	movements, total, err := s.movementRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStockMovementResponses(movements), total, nil
}

// CreateTransfer creates a pending warehouse transfer after checking
// that the source holds enough stock.
func (s *StockService) CreateTransfer(ctx context.Context, req CreateTransferRequest) (*TransferOrderResponse, error) {
	if err := s.requireActiveWarehouse(ctx, req.FromWarehouseID); err != nil {
		return nil, err
	}
	if err := s.requireActiveWarehouse(ctx, req.ToWarehouseID); err != nil {
		return nil, err
	}

	item, err := s.stockRepo.FindByProduct(ctx, req.FromWarehouseID, req.ProductCode, req.BagSizeKg)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInsufficientStock
		}
		return nil, err
	}
	if item.QuantityOnHand.LessThan(req.Quantity) {
		return nil, shared.ErrInsufficientStock
	}

	seq, err := s.sequenceRepo.Next(ctx, yearlySequence(partner.SequenceTransferOrder))
	if err != nil {
		return nil, err
	}
	transferNumber := partner.FormatOrderNumber("TR", partner.CurrentYear(), seq)

	transfer, err := inventory.NewTransferOrder(transferNumber,
		req.FromWarehouseID, req.ToWarehouseID, req.ProductCode, req.BagSizeKg, req.Quantity)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		transfer.Remark = req.Remark
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferOrderResponse(transfer)
	return &response, nil
}

// CompleteTransfer executes a pending transfer: outbound at the source,
// inbound at the destination, one movement record for each side. All
// five writes commit in a single transaction so the transferred
// quantity is conserved whatever fails mid-way.
func (s *StockService) CompleteTransfer(ctx context.Context, transferID uuid.UUID, operatorID *uuid.UUID) (*TransferOrderResponse, error) {
	for attempt := 1; ; attempt++ {
		transfer, err := s.transferRepo.FindByID(ctx, transferID)
		if err != nil {
			return nil, err
		}
		if err := s.requireActiveWarehouse(ctx, transfer.ToWarehouseID); err != nil {
			return nil, err
		}
		if err := transfer.Complete(); err != nil {
			return nil, err
		}

		transferRef := transfer.ID.String()
		remark := "transfer " + transfer.TransferNumber

		source, err := s.stockRepo.FindByProduct(ctx, transfer.FromWarehouseID, transfer.ProductCode, transfer.BagSizeKg)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrInsufficientStock
			}
			return nil, err
		}
		sourceBefore := source.QuantityOnHand
		if err := source.Decrease(transfer.Quantity); err != nil {
			return nil, err
		}
		outMovement, err := inventory.NewStockMovement(source, inventory.MovementTypeOut,
			transfer.Quantity, sourceBefore, source.QuantityOnHand, inventory.MovementSourceTransfer)
		if err != nil {
			return nil, err
		}
		applyMovementOptions(outMovement, &transferRef, remark, operatorID)

		destCreated := false
		dest, err := s.stockRepo.FindByProduct(ctx, transfer.ToWarehouseID, transfer.ProductCode, transfer.BagSizeKg)
		if errors.Is(err, shared.ErrNotFound) {
			dest, err = inventory.NewStockItem(transfer.ToWarehouseID, transfer.ProductCode, source.ProductName, transfer.BagSizeKg)
			destCreated = true
		}
		if err != nil {
			return nil, err
		}
		destBefore := dest.QuantityOnHand
		if err := dest.Increase(transfer.Quantity); err != nil {
			return nil, err
		}
		inMovement, err := inventory.NewStockMovement(dest, inventory.MovementTypeIn,
			transfer.Quantity, destBefore, dest.QuantityOnHand, inventory.MovementSourceTransfer)
		if err != nil {
			return nil, err
		}
		applyMovementOptions(inMovement, &transferRef, remark, operatorID)

		err = s.transferRepo.SaveCompletion(ctx, inventory.TransferCompletion{
			Transfer:        transfer,
			SourceItem:      source,
			DestItem:        dest,
			DestItemCreated: destCreated,
			Movements:       []*inventory.StockMovement{outMovement, inMovement},
		})
		if err == nil {
			s.publishDomainEvents(ctx, source)
			s.publishDomainEvents(ctx, dest)
			if s.eventPublisher != nil {
				_ = s.eventPublisher.Publish(ctx, transfer.GetDomainEvents()...)
				transfer.ClearDomainEvents()
			}
			response := ToTransferOrderResponse(transfer)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= maxSaveAttempts {
			return nil, err
		}
	}
}

// CancelTransfer cancels a pending transfer
func (s *StockService) CancelTransfer(ctx context.Context, transferID uuid.UUID) (*TransferOrderResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if err := transfer.Cancel(); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferOrderResponse(transfer)
	return &response, nil
}

// GetTransfer retrieves a transfer order by ID
func (s *StockService) GetTransfer(ctx context.Context, transferID uuid.UUID) (*TransferOrderResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferOrderResponse(transfer)
	return &response, nil
}

// ListTransfers lists transfer orders, newest first
func (s *StockService) ListTransfers(ctx context.Context, page, pageSize int) ([]TransferOrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	transfers, total, err := s.transferRepo.FindAll(ctx, shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	})
	if err != nil {
		return nil, 0, err
	}

	return ToTransferOrderResponses(transfers), total, nil
}

// yearlySequence scopes a sequence name to the current year so document
// numbers restart each January
func yearlySequence(name string) string {
	return fmt.Sprintf("%s_%d", name, partner.CurrentYear())
}

func applyMovementOptions(m *inventory.StockMovement, sourceID *string, remark string, operatorID *uuid.UUID) {
	if sourceID != nil {
		m.WithSourceID(*sourceID)
	}
	if remark != "" {
		m.WithRemark(remark)
	}
	if operatorID != nil {
		m.WithOperatorID(*operatorID)
	}
}
