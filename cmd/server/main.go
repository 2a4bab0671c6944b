package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/marbleduel/backend/internal/admin"
	"github.com/marbleduel/backend/internal/api"
	"github.com/marbleduel/backend/internal/config"
	"github.com/marbleduel/backend/internal/database"
	"github.com/marbleduel/backend/internal/migrations"
	"github.com/marbleduel/backend/internal/pipeline"
	"github.com/marbleduel/backend/internal/redis"
	"github.com/marbleduel/backend/internal/trends"
	"github.com/marbleduel/backend/internal/video"
	"github.com/marbleduel/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Workers shell out to ffmpeg constantly; fail fast if it is missing.
	if err := video.Verify(); err != nil {
		log.Fatalf("Failed ffmpeg check: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Operator-tuned overrides stored in the database win over env defaults.
	if err := admin.ApplyRuntimeConfigToConfig(db, cfg); err != nil {
		log.Printf("[CONFIG] Runtime config not applied: %v", err)
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// Wire Redis into the WS layer and start the progress fan-out
	ws.SetRedisClient(rdb)
	ws.StartJobEventSubscriber(context.Background())

	// Matchup themes: file if configured, built-in set otherwise
	themes := trends.DefaultThemes()
	if cfg.ThemesPath != "" {
		loaded, err := trends.LoadThemes(cfg.ThemesPath)
		if err != nil {
			log.Fatalf("Failed to load themes from %s: %v", cfg.ThemesPath, err)
		}
		themes = loaded
	}

	// Reddit ranking is best effort; the selector shuffles without it.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var selector *trends.Selector
	if reddit, err := trends.NewRedditFetcher(); err != nil {
		log.Printf("[TRENDS] Reddit client unavailable, category ranking disabled: %v", err)
		selector = trends.NewSelector(themes, rdb, nil, rng)
	} else {
		selector = trends.NewSelector(themes, rdb, reddit, rng)
	}

	// Start render workers
	pipeline.StartWorkers(context.Background(), db, cfg, selector)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, db, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting MarbleDuel server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
