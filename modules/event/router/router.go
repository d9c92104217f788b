package router

import (
	"github.com/labstack/echo/v4"

	"volops/core/middleware"
	"volops/modules/event/controller"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

// NewEventRouter creates a new router
func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	public := v1.Group("/events")
	public.GET("", r.EventController.List)
	public.GET("/:id", r.EventController.GetByID)

	private := v1.Group("/private", mw.AuthMiddleware())
	private.POST("/events", r.EventController.Create)
	private.GET("/events/mine", r.EventController.ListMine)
	private.PUT("/events/:id", r.EventController.Update)
	private.DELETE("/events/:id", r.EventController.Delete)
	private.POST("/events/:id/image", r.EventController.UploadImage)
	private.GET("/dashboard/upcoming-events", r.EventController.UpcomingEvents)
}
