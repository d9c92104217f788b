package router

import (
	"github.com/labstack/echo/v4"

	"volops/core/middleware"
	"volops/modules/notification/controller"
)

// NotificationRouter handles notification routes
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

// NewNotificationRouter creates a new router
func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{
		NotificationController: notificationController,
	}
}

// Setup registers notification routes
func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	routes := v1.Group("/private/notifications", mw.AuthMiddleware())
	routes.GET("", r.NotificationController.GetMyNotifications)
	routes.GET("/unread", r.NotificationController.GetUnreadCount)
	routes.POST("/read", r.NotificationController.MarkAsRead)
	routes.POST("/read-all", r.NotificationController.MarkAllAsRead)
}
