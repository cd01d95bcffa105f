package persistence

import (
	"context"
	"errors"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/domain/trade"
	"github.com/flourmill/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order (with items) by ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds a purchase order by its number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
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

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var orderModels []models.PurchaseOrderModel
	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]trade.PurchaseOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, total, nil
}

// Save creates or updates a purchase order and its items in one transaction.
// Items removed from the aggregate are deleted from the items table.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(&model).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(model.Items))
		for i, item := range model.Items {
			currentItemIDs[i] = item.ID
		}

		itemScope := tx.Where("order_id = ?", model.ID)
		if len(currentItemIDs) > 0 {
			itemScope = itemScope.Where("id NOT IN ?", currentItemIDs)
		}
		if err := itemScope.Delete(&models.PurchaseOrderItemModel{}).Error; err != nil {
			return err
		}

		for i := range model.Items {
			model.Items[i].OrderID = model.ID
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
