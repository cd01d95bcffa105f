package notification

import (
	"context"

	"github.com/flourmill/backend/internal/domain/notification"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationService handles the in-app notification list
type NotificationService struct {
	notificationRepo notification.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notification.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List lists notifications matching the filter, newest first
func (s *NotificationService) List(ctx context.Context, filter NotificationListFilter) ([]NotificationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := notification.NotificationFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		UnreadOnly: filter.UnreadOnly,
	}
	if filter.Category != "" {
		category := notification.Category(filter.Category)
		domainFilter.Category = &category
	}

	notifications, total, err := s.notificationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToNotificationResponses(notifications), total, nil
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	return s.notificationRepo.CountUnread(ctx)
}

// MarkRead marks a single notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n.MarkRead()

	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	response := ToNotificationResponse(n)
	return &response, nil
}

// MarkAllRead marks every unread notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.notificationRepo.MarkAllRead(ctx)
}
