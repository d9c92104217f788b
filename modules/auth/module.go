package auth

import (
	"github.com/labstack/echo/v4"

	"volops/core/cache"
	"volops/core/database"
	"volops/core/middleware"
	"volops/modules/auth/controller"
	"volops/modules/auth/repository"
	"volops/modules/auth/router"
	"volops/modules/auth/service"
)

// Init initializes the auth module and registers routes
func Init(e *echo.Echo, db database.Database, c cache.Cache, mw *middleware.Middleware) {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Setup(e, mw)
}

// GetService creates an AuthService instance for use by other modules
func GetService(db database.Database, c cache.Cache) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	return service.NewAuthService(repo, c)
}
