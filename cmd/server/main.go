package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tiendago/tienda-backend/config"
	"github.com/tiendago/tienda-backend/internal/app/controller"
	"github.com/tiendago/tienda-backend/internal/app/repository"
	"github.com/tiendago/tienda-backend/internal/app/service"
	"github.com/tiendago/tienda-backend/internal/db"
	"github.com/tiendago/tienda-backend/internal/middleware"
	"github.com/tiendago/tienda-backend/internal/router"
	"github.com/tiendago/tienda-backend/internal/scheduler"
	"github.com/tiendago/tienda-backend/pkg/logger"
	"github.com/tiendago/tienda-backend/pkg/redis"
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

	logger.Info("Starting TiendaGo Backend Server", map[string]interface{}{
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

	// Redis is optional; without it logout tokens are not revoked
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	} else {
		logger.Warn("Redis disabled, logout token revocation is off", nil)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, db.GetDB())
	favoriteService := service.NewFavoriteService(favoriteRepo, productRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	reviewController := controller.NewReviewController(reviewService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the discount cleanup scheduler
	discountScheduler := scheduler.NewDiscountScheduler(productService)
	if err := discountScheduler.Start(); err != nil {
		logger.Fatal("Failed to start discount scheduler", err)
	}
	defer discountScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		productController,
		cartController,
		orderController,
		favoriteController,
		reviewController,
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
