package controllers

import (
	"net/http"

	"hotel-ops-backend/middleware"
	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// List returns notifications for the current session. GET /api/notifications
func (nc *NotificationController) List(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
		return
	}

	notifications, err := nc.notifications.ListFor(session)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkRead flags a notification as read. PUT /api/notifications/:id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	n, err := nc.notifications.MarkRead(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
