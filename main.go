// File: habitloop/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habitloop/config"
	"habitloop/cron"
	"habitloop/database"
	challengeRepo "habitloop/database/repository/challenge"
	scheduleRepo "habitloop/database/repository/schedule"
	userRepoPkg "habitloop/database/repository/user"
	"habitloop/handlers"
	"habitloop/middleware"
	"habitloop/routes"
	"habitloop/services/notification"
	"habitloop/services/reminder"
	"habitloop/services/schedule"
	"habitloop/services/syncbridge"
	"habitloop/utils"
	"habitloop/worker"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.InitSyncClient()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	schedRepo := scheduleRepo.NewMongoScheduleRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	chalRepo := challengeRepo.NewMongoChallengeRepo()

	// services.
	bridge := syncbridge.NewBridge(utils.GetSyncClient())

	notificationService := &notification.DefaultNotificationService{
		Users: userRepo,
	}

	scheduleService := &schedule.DefaultScheduleService{
		Repo:   schedRepo,
		Bridge: bridge,
		Logger: logger,
	}

	reminderQueue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer reminderQueue.Close()

	sweepService := &reminder.DefaultSweepService{
		Challenges: chalRepo,
		Notifier:   notificationService,
		Queue:      reminderQueue,
		Logger:     logger,
	}

	// Background processes: the asynq reminder worker (queued pushes and the
	// nightly incomplete-challenge sweep), the timer-based delivery worker,
	// and the foreground listener answering the worker's sync requests.
	cron.InitReminderWorker(notificationService, sweepService)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	deliveryWorker := worker.NewDeliveryWorker(schedRepo, bridge, notificationService)
	deliveryWorker.Logger = logger
	go func() {
		if err := deliveryWorker.Run(workerCtx); err != nil {
			logger.Sugar().Errorf("main: delivery worker stopped: %v", err)
		}
	}()

	fgListener := &syncbridge.ForegroundListener{
		Bridge:  bridge,
		Repo:    schedRepo,
		Checker: sweepService,
		Logger:  logger,
	}
	go fgListener.Run(workerCtx)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient(), utils.GetSyncClient()},
		database.MongoClient,
	)

	// handlers.
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	userDeviceHandler := handlers.NewUserDeviceHandler(userRepo)

	handlerBundle := &handlers.HandlerBundle{
		Schedule:   scheduleHandler,
		UserDevice: userDeviceHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
