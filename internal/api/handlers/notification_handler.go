package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamehub/internal/domain"
	"gamehub/internal/services"
	"gamehub/pkg/logger"
)

type NotificationHandler struct {
	notifications *services.NotificationService
	log           logger.Logger
}

func NewNotificationHandler(notifications *services.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		log:           log,
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	items, err := h.notifications.List(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []*domain.NotificationItem{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": items})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.notifications.MarkRead(c.Request().Context(), UserID(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "read"})
}
