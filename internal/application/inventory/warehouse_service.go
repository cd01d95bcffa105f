package inventory

import (
	"context"
	"strings"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseService handles warehouse management operations
type WarehouseService struct {
	warehouseRepo inventory.WarehouseRepository
	stockRepo     inventory.StockItemRepository
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	warehouseRepo inventory.WarehouseRepository,
	stockRepo inventory.StockItemRepository,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
	}
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.warehouseRepo.ExistsByCode(ctx, strings.ToUpper(req.Code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}

	warehouse, err := inventory.NewWarehouse(req.Code, req.Name, req.CapacityKg)
	if err != nil {
		return nil, err
	}

	if req.ManagerName != "" || req.Phone != "" || req.Address != "" {
		warehouse.SetContact(req.ManagerName, req.Phone, req.Address)
	}
	if req.IsDefault {
		warehouse.MarkDefault()
	}
	if req.Notes != "" {
		warehouse.Notes = req.Notes
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	response := ToWarehouseResponse(warehouse, decimal.Zero)
	return &response, nil
}

// GetByID retrieves a warehouse with its derived utilization
func (s *WarehouseService) GetByID(ctx context.Context, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	weight, err := s.stockRepo.TotalWeightKg(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	response := ToWarehouseResponse(warehouse, weight)
	return &response, nil
}

// List retrieves warehouses with their derived utilization
func (s *WarehouseService) List(ctx context.Context, filter WarehouseListFilter) ([]WarehouseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "code",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	warehouses, total, err := s.warehouseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		weight, err := s.stockRepo.TotalWeightKg(ctx, warehouses[i].ID)
		if err != nil {
			return nil, 0, err
		}
		responses[i] = ToWarehouseResponse(&warehouses[i], weight)
	}

	return responses, total, nil
}

// Update updates a warehouse
func (s *WarehouseService) Update(ctx context.Context, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		warehouse.Name = *req.Name
	}
	if req.CapacityKg != nil {
		if err := warehouse.SetCapacity(*req.CapacityKg); err != nil {
			return nil, err
		}
	}
	if req.ManagerName != nil || req.Phone != nil || req.Address != nil {
		managerName := warehouse.ManagerName
		if req.ManagerName != nil {
			managerName = *req.ManagerName
		}
		phone := warehouse.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		address := warehouse.Address
		if req.Address != nil {
			address = *req.Address
		}
		warehouse.SetContact(managerName, phone, address)
	}
	if req.Notes != nil {
		warehouse.Notes = *req.Notes
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	weight, err := s.stockRepo.TotalWeightKg(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	response := ToWarehouseResponse(warehouse, weight)
	return &response, nil
}

// SetDefault marks a warehouse as the default for operations
func (s *WarehouseService) SetDefault(ctx context.Context, warehouseID uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return err
	}

	warehouse.MarkDefault()
	return s.warehouseRepo.Save(ctx, warehouse)
}

// Deactivate disables a warehouse for new movements
func (s *WarehouseService) Deactivate(ctx context.Context, warehouseID uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return err
	}

	if err := warehouse.Deactivate(); err != nil {
		return err
	}

	return s.warehouseRepo.Save(ctx, warehouse)
}
