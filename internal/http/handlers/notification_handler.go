package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satraksha/hazard-backend/internal/http/handlers/common"
	"github.com/satraksha/hazard-backend/internal/service"
)

// NotificationHandler предоставляет HTTP слой для журнала уведомлений.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler создаёт хэндлер.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications обрабатывает GET /notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	notifications, err := h.notifications.ListByUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, notifications)
}
