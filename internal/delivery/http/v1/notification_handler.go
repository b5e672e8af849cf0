package v1

import (
	"net/http"

	"karya-backend/internal/delivery/http/response"
	"karya-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

func NewNotificationHandler(protected *gin.RouterGroup, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.PATCH("/:id/read", handler.MarkRead)
	}
}

// List returns the caller's feed: every unread notification plus a short
// tail of recent read ones.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	notifications, err := h.notificationUC.ListForUser(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notifications", gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.notificationUC.MarkRead(c, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notification marked read", nil)
}
