package models

import (
	"time"

	"github.com/flourmill/backend/internal/domain/notification"
	"github.com/flourmill/backend/internal/domain/shared"
)

// NotificationModel is the persistence model for in-app notifications.
type NotificationModel struct {
	BaseModel
	Category  notification.Category `gorm:"type:varchar(30);not null;index:idx_notification_category"`
	Title     string                `gorm:"type:varchar(200);not null"`
	Message   string                `gorm:"type:text;not null"`
	DedupKey  string                `gorm:"type:varchar(200);not null;index:idx_notification_dedup"`
	IsRead    bool                  `gorm:"not null;default:false;index:idx_notification_read"`
	ReadAt    *time.Time
	SourceID  *string `gorm:"type:varchar(100)"`
	CreatedBy string  `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Category:  m.Category,
		Title:     m.Title,
		Message:   m.Message,
		DedupKey:  m.DedupKey,
		IsRead:    m.IsRead,
		ReadAt:    m.ReadAt,
		SourceID:  m.SourceID,
		CreatedBy: m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain Notification entity.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.Category = n.Category
	m.Title = n.Title
	m.Message = n.Message
	m.DedupKey = n.DedupKey
	m.IsRead = n.IsRead
	m.ReadAt = n.ReadAt
	m.SourceID = n.SourceID
	m.CreatedBy = n.CreatedBy
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification entity.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}
