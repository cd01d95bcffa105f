package persistence

import (
	"context"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// Movements are append-only; the repository exposes no update path.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create persists a movement record
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	model := models.StockMovementModelFromDomain(movement)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByStockItemID lists movements for one stock item, newest first
func (r *GormStockMovementRepository) FindByStockItemID(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Where("stock_item_id = ?", stockItemID)

	return r.listMovements(query, filter)
}

// FindAll lists movements matching the filter, newest first
func (r *GormStockMovementRepository) FindAll(ctx context.Context, filter inventory.StockMovementFilter) ([]inventory.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovementModel{})

	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.ProductCode != "" {
		query = query.Where("product_code = ?", filter.ProductCode)
	}
	if filter.MovementType != nil {
		query = query.Where("movement_type = ?", *filter.MovementType)
	}
	if filter.SourceType != nil {
		query = query.Where("source_type = ?", *filter.SourceType)
	}

	return r.listMovements(query, filter.Filter)
}

func (r *GormStockMovementRepository) listMovements(query *gorm.DB, filter shared.Filter) ([]inventory.StockMovement, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var movementModels []models.StockMovementModel
	if err := query.Order("movement_date DESC, created_at DESC").Find(&movementModels).Error; err != nil {
		return nil, 0, err
	}

	movements := make([]inventory.StockMovement, len(movementModels))
	for i := range movementModels {
		movements[i] = *movementModels[i].ToDomain()
	}
	return movements, total, nil
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
