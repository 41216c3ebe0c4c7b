package main

import (
	"fmt"
	"net/http"

	"github.com/akuteman/finance-tracker/internal/api"
	"github.com/akuteman/finance-tracker/internal/config"
	"github.com/akuteman/finance-tracker/internal/repository"
	"github.com/akuteman/finance-tracker/internal/service"
	"github.com/akuteman/finance-tracker/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Pick up a local .env if present
	_ = godotenv.Load()

	logger := utils.NewLogger()

	// Load configuration
	cfg := config.LoadConfig()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Create repository
	repo := repository.NewSQLRepository(db)

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth)

	// Create API handler
	handler := api.NewHandler(svc, logger, []byte(cfg.Auth.JWTSecret))

	// Set up Gin router
	router := gin.Default()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
