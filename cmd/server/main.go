package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rocksolid/climbing-trainer/internal/api"
	"rocksolid/climbing-trainer/internal/app"
	"rocksolid/climbing-trainer/internal/config"
	"rocksolid/climbing-trainer/internal/logger"
	"rocksolid/climbing-trainer/internal/service"
	"rocksolid/climbing-trainer/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title RockSolid Climbing Trainer API
// @version 1.0
// @description Weekly climbing plans, session tracking and progress achievements.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// stderr-only until the configured logger replaces it
	_ = logger.Init(logger.Config{})

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("Could not load config", "error", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File, Debug: cfg.Log.Debug}); err != nil {
		logger.Fatal("Could not initialize logger", "error", err)
	}
	logger.Info("Starting RockSolid server", "address", cfg.Server.Address, "driver", cfg.Database.Driver)

	if cfg.JWT.Secret == "" {
		logger.Fatal("jwt.secret is required")
	}

	loc, err := cfg.Plan.LoadLocation()
	if err != nil {
		logger.Fatal("Invalid plan location", "location", cfg.Plan.Location, "error", err)
	}

	// --- Database Connection ---
	repos, closeDB, err := app.OpenRepositories(cfg.Database)
	if err != nil {
		logger.Fatal("Could not open store", "error", err)
	}
	defer closeDB()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", "error", err)
	}

	// --- Initialize Services ---
	services := app.NewServices(repos, cfg.JWT, fileStorage, service.NewClock(loc), nil)

	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	api.SetupRoutes(router, cfg.JWT.Secret, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe error", "error", err)
		}
	}()
	logger.Info("Server listening", "address", cfg.Server.Address)

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		return
	}

	logger.Info("Server exiting")
}

// requestLogger replaces gin's default logger with structured request lines.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
