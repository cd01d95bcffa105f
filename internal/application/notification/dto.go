package notification

import (
	"time"

	"github.com/flourmill/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationListFilter represents filter options for the notification list
type NotificationListFilter struct {
	Category   string `form:"category" binding:"omitempty,oneof=low_stock credit_suspended transfer_completed"`
	UnreadOnly bool   `form:"unread_only"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Category  string     `json:"category"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	SourceID  *string    `json:"source_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToNotificationResponse converts a domain Notification
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Category:  string(n.Category),
		Title:     n.Title,
		Message:   n.Message,
		SourceID:  n.SourceID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of domain Notifications
func ToNotificationResponses(notifications []notification.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = ToNotificationResponse(&notifications[i])
	}
	return responses
}
