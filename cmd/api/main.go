package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"collector/internal/config"
	"collector/internal/handlers"
	"collector/internal/logger"
	"collector/internal/middleware"
	"collector/internal/services"
	"collector/internal/store"
	"collector/internal/validator"
)

// @title           Currency Collector API
// @version         1.0
// @description     A currency-note collection manager: CRUD over a CSV-backed record store with bulk import/export.

// @host      localhost:8080
// @BasePath  /api

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Register custom request validations
	validator.Register()

	// The store owns the CSV file exclusively; everything reaches it
	// through the service layer.
	noteStore := store.New(cfg.CSVPath)
	noteService := services.NewNoteService(noteStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	noteHandler := handlers.NewNoteHandler(noteService)

	// Rate limiting applies to mutating UI routes only.
	limiter := middleware.NewSlidingWindowLimiter(cfg.RateLimit, cfg.RateWindow)

	router := newRouter(cfg, authHandler, noteHandler, limiter)

	log.Infof("Starting collector backend server on port %s", cfg.Port)
	log.Infof("Serving collection from %s", cfg.CSVPath)
	return router.Run(":" + cfg.Port)
}

// newRouter wires middleware and routes onto a fresh Gin engine.
func newRouter(cfg *config.Config, authHandler *handlers.AuthHandler, noteHandler *handlers.NoteHandler, limiter middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	sessionAuth := middleware.SessionAuth()
	readAuth := middleware.SessionOrBearer(cfg.APIToken)
	bearerAuth := middleware.BearerAuth(cfg.APIToken)
	limited := middleware.RateLimit(limiter)

	api := router.Group("/api")

	// Health check endpoint
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Interactive session
	api.POST("/login", authHandler.Login)
	api.GET("/logout", sessionAuth, authHandler.Logout)

	// Reads accept either auth scheme so machine integrations can list
	// and export without an interactive login.
	api.GET("/notes", readAuth, noteHandler.ListNotes)
	api.GET("/notes.csv", readAuth, noteHandler.ExportNotes)

	// Mutations are session-only and rate limited.
	api.POST("/notes", sessionAuth, limited, noteHandler.CreateNote)
	api.PUT("/notes/:id", sessionAuth, limited, noteHandler.UpdateNote)
	api.DELETE("/notes/:id", sessionAuth, limited, noteHandler.DeleteNote)
	api.POST("/import", sessionAuth, limited, noteHandler.ImportNotes)

	// Machine integration path: bearer token only.
	api.PATCH("/notes/:id/estimate", bearerAuth, noteHandler.UpdateEstimate)

	// Static web UI
	if _, err := os.Stat(cfg.StaticDir); err == nil {
		router.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))
		router.Static("/static", cfg.StaticDir)
	}

	return router
}
