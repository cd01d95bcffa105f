package handler

import (
	notificationapp "github.com/flourmill/backend/internal/application/notification"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles in-app notification endpoints.
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List godoc
// @ID           listNotifications
// @Summary      List notifications
// @Description  Returns notifications newest first, optionally limited to unread
// @Tags         notifications
// @Produce      json
// @Param        category query string false "Filter by category" Enums(low_stock, credit_suspended, transfer_completed)
// @Param        unread_only query bool false "Only unread notifications"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var filter notificationapp.NotificationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	notifications, total, err := h.notificationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, notifications, total, filter.Page, filter.PageSize)
}

// UnreadCount godoc
// @ID           getUnreadNotificationCount
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: count})
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, notification)
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Success      204
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
