package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aokimoto/orderdesk-backend/config"
	"github.com/aokimoto/orderdesk-backend/internal/app/controller"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/internal/app/service"
	"github.com/aokimoto/orderdesk-backend/internal/db"
	"github.com/aokimoto/orderdesk-backend/internal/middleware"
	"github.com/aokimoto/orderdesk-backend/internal/router"
	"github.com/aokimoto/orderdesk-backend/internal/scheduler"
	"github.com/aokimoto/orderdesk-backend/pkg/logger"
	"github.com/aokimoto/orderdesk-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting ORDERDESK Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed the initial manager account (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the token blacklist; logout degrades gracefully without it
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	sessionService := service.NewSessionService(userRepo)
	passwordResetService := service.NewPasswordResetService(resetRepo, userRepo)
	orderService := service.NewOrderService(orderRepo)
	userAdminService := service.NewUserAdminService(userRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, sessionService, passwordResetService)
	orderController := controller.NewOrderController(orderService, authService)
	managerController := controller.NewManagerController(orderService, userAdminService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, sessionService)

	// Start the reset token purge scheduler
	resetScheduler := scheduler.NewResetTokenScheduler(passwordResetService)
	if err := resetScheduler.Start(); err != nil {
		logger.Warn("Failed to start reset token scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer resetScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		orderController,
		managerController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
