package notification

import (
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
)

// Category classifies what a notification is about
type Category string

const (
	CategoryLowStock          Category = "low_stock"
	CategoryCreditSuspended   Category = "credit_suspended"
	CategoryTransferCompleted Category = "transfer_completed"
)

// IsValid returns true if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryLowStock, CategoryCreditSuspended, CategoryTransferCompleted:
		return true
	}
	return false
}

// Notification is an in-app alert for the mill operators.
// DedupKey identifies the underlying condition; at most one unread
// notification exists per key, so a repeatedly firing alert does not
// flood the list.
type Notification struct {
	shared.BaseEntity
	Category  Category
	Title     string
	Message   string
	DedupKey  string
	IsRead    bool
	ReadAt    *time.Time
	SourceID  *string
	CreatedBy string
}

// NewNotification creates an unread notification
func NewNotification(category Category, title, message, dedupKey string) (*Notification, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Invalid notification category")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	if dedupKey == "" {
		return nil, shared.NewDomainError("INVALID_DEDUP_KEY", "Deduplication key cannot be empty")
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Category:   category,
		Title:      title,
		Message:    message,
		DedupKey:   dedupKey,
	}, nil
}

// WithSourceID links the notification to the document or record that caused it
func (n *Notification) WithSourceID(sourceID string) *Notification {
	n.SourceID = &sourceID
	return n
}

// MarkRead marks the notification as read; reading twice is harmless
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	n.UpdatedAt = now
}
