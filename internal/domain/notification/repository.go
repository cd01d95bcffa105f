package notification

import (
	"context"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationFilter narrows notification queries
type NotificationFilter struct {
	shared.Filter
	Category   *Category
	UnreadOnly bool
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create persists a notification
	Create(ctx context.Context, notification *Notification) error

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindAll lists notifications matching the filter, newest first
	FindAll(ctx context.Context, filter NotificationFilter) ([]Notification, int64, error)

	// ExistsUnreadByDedupKey reports whether an unread notification with
	// the key already exists
	ExistsUnreadByDedupKey(ctx context.Context, dedupKey string) (bool, error)

	// CountUnread counts unread notifications
	CountUnread(ctx context.Context) (int64, error)

	// Save updates a notification
	Save(ctx context.Context, notification *Notification) error

	// MarkAllRead marks every unread notification as read
	MarkAllRead(ctx context.Context) error
}
