package router

import (
	"github.com/labstack/echo/v4"

	"volops/core/middleware"
	"volops/modules/auth/controller"
)

// AuthRouter handles auth routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

// NewAuthRouter creates a new router
func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.POST("/signup", r.AuthController.SignUp)
	authRoutes.POST("/login", r.AuthController.Login)

	privateRoutes := v1.Group("/private/auth", mw.AuthMiddleware())
	privateRoutes.POST("/logout", r.AuthController.Logout)
	privateRoutes.GET("/profile", r.AuthController.GetProfile)
	privateRoutes.PUT("/profile", r.AuthController.UpdateProfile)
}
