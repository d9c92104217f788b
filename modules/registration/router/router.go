package router

import (
	"github.com/labstack/echo/v4"

	"volops/core/middleware"
	"volops/modules/registration/controller"
)

// RegistrationRouter handles registration routes
type RegistrationRouter struct {
	RegistrationController *controller.RegistrationController
}

// NewRegistrationRouter creates a new router
func NewRegistrationRouter(registrationController *controller.RegistrationController) *RegistrationRouter {
	return &RegistrationRouter{
		RegistrationController: registrationController,
	}
}

// Setup registers registration routes
func (r *RegistrationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	routes := v1.Group("/private/events/:id", mw.AuthMiddleware())
	routes.POST("/register", r.RegistrationController.Register)
	routes.DELETE("/register", r.RegistrationController.Deregister)
	routes.POST("/toggle", r.RegistrationController.Toggle)
	routes.GET("/registrations", r.RegistrationController.ListRegistrations)
}
