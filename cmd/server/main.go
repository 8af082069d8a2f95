package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/lakshyamela/platform/internal/auth"
	"github.com/lakshyamela/platform/internal/config"
	"github.com/lakshyamela/platform/internal/database"
	"github.com/lakshyamela/platform/internal/handlers"
	"github.com/lakshyamela/platform/internal/middleware"
	"github.com/lakshyamela/platform/internal/services"
	"github.com/lakshyamela/platform/internal/storage"
	"github.com/lakshyamela/platform/pkg/logger"
)

func main() {
	// Load configuration (.env + MELA_* environment variables)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.Log)

	// Initialize database
	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Object storage client (disabled when unconfigured; the upload and
	// media paths report a configuration error, the rest of the API serves)
	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}
	if !store.Enabled() {
		logger.Warn("object storage not configured; upload and media endpoints disabled")
	}

	// Initialize services
	authClient := auth.NewClient(cfg.Auth.BaseURL)
	allowlistService := services.NewAllowlistService(db.Pool)
	stallService := services.NewStallService(db.Pool)

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(authClient, allowlistService, store)
	catalogHandler := handlers.NewCatalogHandler(allowlistService, stallService)
	mediaHandler := handlers.NewMediaHandler(store)
	directoryHandler := handlers.NewDirectoryHandler()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigin))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")

	// Public catalog
	api.GET("/public/clubs", catalogHandler.ListClubStalls)
	api.GET("/media", mediaHandler.Get)
	api.GET("/stalls", directoryHandler.List)
	api.GET("/stalls/:slug", directoryHandler.GetBySlug)

	// Authenticated media upload
	api.POST("/upload", middleware.UploadRateLimitMiddleware(), uploadHandler.Upload)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Mela platform API starting", "addr", addr)
		if err := router.Run(addr); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	logger.Info("Server stopped")
}
