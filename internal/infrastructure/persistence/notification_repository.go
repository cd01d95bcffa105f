package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/flourmill/backend/internal/domain/notification"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create persists a notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists notifications matching the filter, newest first
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter notification.NotificationFilter) ([]notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{})

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var notificationModels []models.NotificationModel
	if err := query.Order("created_at DESC").Find(&notificationModels).Error; err != nil {
		return nil, 0, err
	}

	notifications := make([]notification.Notification, len(notificationModels))
	for i := range notificationModels {
		notifications[i] = *notificationModels[i].ToDomain()
	}
	return notifications, total, nil
}

// ExistsUnreadByDedupKey reports whether an unread notification with the key already exists
func (r *GormNotificationRepository) ExistsUnreadByDedupKey(ctx context.Context, dedupKey string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("dedup_key = ? AND is_read = ?", dedupKey, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountUnread counts unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("is_read = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	return r.db.WithContext(ctx).Save(model).Error
}

// MarkAllRead marks every unread notification as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error
}

// Ensure GormNotificationRepository implements NotificationRepository
var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)
