package event

import (
	"github.com/labstack/echo/v4"

	"volops/core/cache"
	"volops/core/database"
	"volops/core/middleware"
	"volops/core/storage"
	"volops/modules/auth"
	"volops/modules/event/controller"
	"volops/modules/event/repository"
	"volops/modules/event/router"
	"volops/modules/event/service"
	"volops/modules/notification/worker"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.Database, c cache.Cache, st storage.Storage, mw *middleware.Middleware, enqueuer worker.Enqueuer) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, auth.GetService(db, c), c, st, enqueuer)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Setup(e, mw)
}
