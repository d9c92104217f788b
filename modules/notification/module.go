package notification

import (
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"

	"volops/core/database"
	"volops/core/middleware"
	eventrepo "volops/modules/event/repository"
	"volops/modules/notification/controller"
	"volops/modules/notification/repository"
	"volops/modules/notification/router"
	"volops/modules/notification/service"
	"volops/modules/notification/worker"
)

// Init initializes the notification module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Setup(e, mw)
}

// RegisterWorker attaches notification task handlers to the asynq mux
func RegisterWorker(mux *asynq.ServeMux, db database.Database) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	handler := worker.NewHandler(svc, eventrepo.NewEventRepository(db))

	handler.Register(mux)
}
