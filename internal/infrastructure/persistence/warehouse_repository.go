package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by ID
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Warehouse, error) {
	var model models.WarehouseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a warehouse by its code
func (r *GormWarehouseRepository) FindByCode(ctx context.Context, code string) (*inventory.Warehouse, error) {
	var model models.WarehouseModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDefault finds the default warehouse
func (r *GormWarehouseRepository) FindDefault(ctx context.Context) (*inventory.Warehouse, error) {
	var model models.WarehouseModel
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists warehouses matching the filter
func (r *GormWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Warehouse, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WarehouseModel{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, WarehouseSortFields, "code")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var warehouseModels []models.WarehouseModel
	if err := query.Find(&warehouseModels).Error; err != nil {
		return nil, 0, err
	}

	warehouses := make([]inventory.Warehouse, len(warehouseModels))
	for i, model := range warehouseModels {
		warehouses[i] = *model.ToDomain()
	}
	return warehouses, total, nil
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *inventory.Warehouse) error {
	model := models.WarehouseModelFromDomain(warehouse)
	return r.db.WithContext(ctx).Save(model).Error
}

// ExistsByCode checks whether a warehouse with the code exists
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WarehouseModel{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormWarehouseRepository implements WarehouseRepository
var _ inventory.WarehouseRepository = (*GormWarehouseRepository)(nil)
