package api

import (
	"net/http"

	"rocksolid/climbing-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications godoc
// @Summary List notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Notification
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	items, err := h.notificationService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// UnreadCount godoc
// @Summary Number of unread notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "{"unread": n}"
// @Router /notifications/unread [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	n, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found"
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
