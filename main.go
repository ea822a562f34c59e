// File: notifyhub/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notifyhub/config"
	"notifyhub/cron"
	"notifyhub/database"
	directoryRepo "notifyhub/database/repository/directory"
	notificationRepo "notifyhub/database/repository/notification"
	"notifyhub/handlers"
	"notifyhub/middleware"
	"notifyhub/routes"
	"notifyhub/services/notification"
	"notifyhub/services/tasks"
	"notifyhub/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitDirectoryCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	notifRepo := notificationRepo.NewMongoNotificationRepo()
	dirRepo := directoryRepo.NewMongoDirectoryRepo()

	// services.
	queueClient := tasks.NewQueueClient()
	defer queueClient.Close()

	notificationService := &notification.DefaultNotificationService{
		Repo:      notifRepo,
		Directory: dirRepo,
		Profiles:  dirRepo,
		Queue:     &tasks.AsynqEnqueuer{Client: queueClient},
	}

	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Start the push gateway worker.
	cron.InitPushWorker(notifRepo, dirRepo)

	// Register routes.
	routes.RegisterRoutes(router, notificationHandler)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
