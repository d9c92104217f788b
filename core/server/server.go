package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"volops/core/cache"
	"volops/core/config"
	"volops/core/constants"
	"volops/core/database"
	"volops/core/logger"
	"volops/core/middleware"
	"volops/core/storage"
	"volops/modules/auth"
	"volops/modules/event"
	"volops/modules/notification"
	"volops/modules/notification/worker"
	"volops/modules/registration"
)

const shutdownTimeout = 10 * time.Second

// Run bootstraps the API server, the background worker and the scheduler,
// then blocks until a termination signal arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.SQLx().Close()

	if err := database.RunMigrations(cfg.Database.URL(), cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	c, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer c.Close()

	st := storage.NewStorage(cfg.Storage)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()
	enqueuer := worker.NewEnqueuer(asynqClient)

	e := newEcho()
	mw := middleware.NewMiddleware(c)

	auth.Init(e, db, c, mw)
	event.Init(e, db, c, st, mw, enqueuer)
	registration.Init(e, db, mw, enqueuer)
	notification.Init(e, db, mw)

	workerServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})
	mux := asynq.NewServeMux()
	notification.RegisterWorker(mux, db)

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register("@every 24h", asynq.NewTask(constants.TaskEventReminder, nil)); err != nil {
		return fmt.Errorf("register reminder schedule: %w", err)
	}

	errCh := make(chan error, 3)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Server:Start", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := workerServer.Run(mux); err != nil {
			errCh <- fmt.Errorf("worker server: %w", err)
		}
	}()
	go func() {
		if err := scheduler.Run(); err != nil {
			errCh <- fmt.Errorf("scheduler: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Server:Shutdown", "signal", sig.String())
	}

	scheduler.Shutdown()
	workerServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				args = append(args, "error", v.Error.Error())
			}
			logger.Info("Server:Request", args...)
			return nil
		},
	}))
	e.Use(echomiddleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e
}
