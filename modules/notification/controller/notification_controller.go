package controller

import (
	"github.com/labstack/echo/v4"

	"volops/core/controller"
	"volops/core/errors"
	"volops/core/params"
	authcontroller "volops/modules/auth/controller"
	"volops/modules/notification/dto"
	"volops/modules/notification/service"
)

// NotificationController handles notification HTTP requests
type NotificationController struct {
	controller.BaseController
	NotificationService *service.NotificationService
}

// NewNotificationController creates a new controller
func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

// GetMyNotifications handles GET /private/notifications
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	p := params.FromContext(ctx)
	result, err := c.NotificationService.GetMyNotifications(ctx.Request().Context(), userID, p)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to list notifications")
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetUnreadCount handles GET /private/notifications/unread
func (c *NotificationController) GetUnreadCount(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	count, err := c.NotificationService.CountUnread(ctx.Request().Context(), userID)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to count notifications")
	}

	return c.SuccessResponse(ctx, dto.UnreadCountResponse{Unread: count}, "Success")
}

// MarkAsRead handles POST /private/notifications/read
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.MarkAsReadRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	if err := c.NotificationService.MarkAsRead(ctx.Request().Context(), userID, req.IDs); err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to mark notifications read")
	}

	return c.SuccessResponse(ctx, nil, "Notifications marked read")
}

// MarkAllAsRead handles POST /private/notifications/read-all
func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if err := c.NotificationService.MarkAllAsRead(ctx.Request().Context(), userID); err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to mark notifications read")
	}

	return c.SuccessResponse(ctx, nil, "All notifications marked read")
}
