package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/notSure-ded/healthCare/internal/assignment"
	"github.com/notSure-ded/healthCare/internal/auth"
	"github.com/notSure-ded/healthCare/internal/clinical"
	"github.com/notSure-ded/healthCare/internal/metrics"
	"github.com/notSure-ded/healthCare/pkg/config"
	"github.com/notSure-ded/healthCare/pkg/database"
	"github.com/notSure-ded/healthCare/pkg/logger"
)

func main() {
	// Load a .env file if present so local settings reach viper
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.WithComponent("server").Info("Starting healthcare API")

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := db.CreateSchema(context.Background()); err != nil {
		log.WithError(err).Error("Failed to create database schema")
		os.Exit(1)
	}

	// Identity store
	passwordManager := auth.NewPasswordManager()
	tokenManager := auth.NewTokenManager(&cfg.JWT)
	userRepo := auth.NewUserRepository(db, log)
	authService := auth.NewService(cfg, log, userRepo, passwordManager, tokenManager)
	authHandlers := auth.NewHandlers(authService, log)

	// Clinical registry
	patientRepo := clinical.NewPatientRepository(db, log)
	doctorRepo := clinical.NewDoctorRepository(db, log)
	clinicalService := clinical.NewService(log, patientRepo, doctorRepo)
	clinicalHandlers := clinical.NewHandlers(clinicalService, log)

	// Assignment ledger
	mappingRepo := assignment.NewMappingRepository(db, log)
	assignmentService := assignment.NewService(log, mappingRepo)
	assignmentHandlers := assignment.NewHandlers(assignmentService, log)

	// Setup Gin router
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "healthcare-api",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "healthcare-api",
			"timestamp": time.Now().UTC(),
		})
	})

	router.GET("/metrics", metrics.Handler())

	// Register routes
	authMiddleware := auth.Middleware(tokenManager)
	authHandlers.RegisterRoutes(router)
	clinicalHandlers.RegisterRoutes(router, authMiddleware)
	assignmentHandlers.RegisterRoutes(router, authMiddleware)

	// Setup HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("address", server.Addr).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start HTTP server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down healthcare API...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Healthcare API stopped")
}
