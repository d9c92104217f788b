package registration

import (
	"github.com/labstack/echo/v4"

	"volops/core/database"
	"volops/core/middleware"
	"volops/modules/notification/worker"
	"volops/modules/registration/controller"
	"volops/modules/registration/repository"
	"volops/modules/registration/router"
	"volops/modules/registration/service"
)

// Init initializes the registration module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, enqueuer worker.Enqueuer) {
	repo := repository.NewRegistrationRepository(db)
	svc := service.NewRegistrationService(repo, enqueuer)
	ctrl := controller.NewRegistrationController(svc)

	router.NewRegistrationRouter(ctrl).Setup(e, mw)
}
