// File: /main.go
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"log"
	"sectornet-api/config"
	"sectornet-api/database"
	"sectornet-api/jobs"
	"sectornet-api/middleware"
	"sectornet-api/routes"
	"sectornet-api/services"
	"time"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Optional relationship cache
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(routes.SetupCORS())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.ValidateJSON())
	router.Use(middleware.RateLimit(120, 20))
	router.Use(middleware.PaginationDefaults())

	emailService := services.NewEmailService(cfg)
	hub := services.NewRealtimeHub()

	// Setup routes
	routes.SetupRoutes(router, db, cfg, cache, emailService, hub)

	// Background pruning of stale read notifications
	cleanupJob := jobs.NewNotificationCleanupJob(db, 6*time.Hour)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	// Start server
	log.Printf("Starting Sectornet API server on port %s", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
