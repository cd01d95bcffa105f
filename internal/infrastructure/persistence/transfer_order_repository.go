package persistence

import (
	"context"
	"errors"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransferOrderRepository implements TransferOrderRepository using GORM
type GormTransferOrderRepository struct {
	db *gorm.DB
}

// NewGormTransferOrderRepository creates a new GormTransferOrderRepository
func NewGormTransferOrderRepository(db *gorm.DB) *GormTransferOrderRepository {
	return &GormTransferOrderRepository{db: db}
}

// FindByID finds a transfer order by ID
func (r *GormTransferOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.TransferOrder, error) {
	var model models.TransferOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTransferNumber finds a transfer order by its number
func (r *GormTransferOrderRepository) FindByTransferNumber(ctx context.Context, transferNumber string) (*inventory.TransferOrder, error) {
	var model models.TransferOrderModel
	if err := r.db.WithContext(ctx).
		Where("transfer_number = ?", transferNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists transfer orders matching the filter
func (r *GormTransferOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.TransferOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TransferOrderModel{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("transfer_number ILIKE ? OR product_code ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "from_warehouse_id":
			query = query.Where("from_warehouse_id = ?", value)
		case "to_warehouse_id":
			query = query.Where("to_warehouse_id = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TransferSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var transferModels []models.TransferOrderModel
	if err := query.Find(&transferModels).Error; err != nil {
		return nil, 0, err
	}

	transfers := make([]inventory.TransferOrder, len(transferModels))
	for i, model := range transferModels {
		transfers[i] = *model.ToDomain()
	}
	return transfers, total, nil
}

// Save creates or updates a transfer order
func (r *GormTransferOrderRepository) Save(ctx context.Context, transfer *inventory.TransferOrder) error {
	model := models.TransferOrderModelFromDomain(transfer)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveCompletion writes both stock items, both movement records and the
// transfer in one transaction. A crash between the two sides can no
// longer lose the quantity in flight.
func (r *GormTransferOrderRepository) SaveCompletion(ctx context.Context, c inventory.TransferCompletion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateStockItemWithLock(tx, c.SourceItem); err != nil {
			return err
		}

		if c.DestItemCreated {
			if err := tx.Create(models.StockItemModelFromDomain(c.DestItem)).Error; err != nil {
				return err
			}
		} else if err := updateStockItemWithLock(tx, c.DestItem); err != nil {
			return err
		}

		for _, movement := range c.Movements {
			if err := tx.Create(models.StockMovementModelFromDomain(movement)).Error; err != nil {
				return err
			}
		}

		return tx.Save(models.TransferOrderModelFromDomain(c.Transfer)).Error
	})
}

// Ensure GormTransferOrderRepository implements TransferOrderRepository
var _ inventory.TransferOrderRepository = (*GormTransferOrderRepository)(nil)
