package persistence

import (
	"context"
	"errors"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct finds the stock item for a product and bag size at a warehouse
func (r *GormStockItemRepository) FindByProduct(ctx context.Context, warehouseID uuid.UUID, productCode string, bagSizeKg decimal.Decimal) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_code = ? AND bag_size_kg = ?", warehouseID, productCode, bagSizeKg).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByWarehouse lists stock items at a warehouse
func (r *GormStockItemRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockItemModel{}).
		Where("warehouse_id = ?", warehouseID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("product_code ILIKE ? OR product_name ILIKE ?", searchPattern, searchPattern)
	}
	if belowThreshold, ok := filter.Filters["below_threshold"]; ok && belowThreshold == true {
		query = query.Where("low_stock_threshold > 0 AND quantity_on_hand <= low_stock_threshold")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockItemSortFields, "product_code")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var itemModels []models.StockItemModel
	if err := query.Find(&itemModels).Error; err != nil {
		return nil, 0, err
	}

	items := make([]inventory.StockItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, total, nil
}

// FindBelowThreshold lists items at or below their low-stock threshold.
// Items with a zero threshold never alert.
func (r *GormStockItemRepository) FindBelowThreshold(ctx context.Context) ([]inventory.StockItem, error) {
	var itemModels []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("low_stock_threshold > 0 AND quantity_on_hand <= low_stock_threshold").
		Order("warehouse_id, product_code").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]inventory.StockItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// TotalWeightKg sums the stock weight at a warehouse in kilograms
func (r *GormStockItemRepository) TotalWeightKg(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.StockItemModel{}).
		Select("COALESCE(SUM(quantity_on_hand * bag_size_kg), 0) AS total").
		Where("warehouse_id = ?", warehouseID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	model := models.StockItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates a stock item guarded by its version. Zero rows
// affected means another writer moved the quantity first.
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	return updateStockItemWithLock(r.db.WithContext(ctx), item)
}

// updateStockItemWithLock is shared with the transfer repository, which
// runs the same version-guarded update inside its own transaction.
func updateStockItemWithLock(db *gorm.DB, item *inventory.StockItem) error {
	model := models.StockItemModelFromDomain(item)
	result := db.Model(model).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)
