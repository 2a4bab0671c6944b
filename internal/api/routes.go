package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/marbleduel/backend/internal/api/handlers"
	"github.com/marbleduel/backend/internal/config"
	"github.com/marbleduel/backend/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	// No-cache middleware in development so stale job state never sticks
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Public read-only surface: poll a run, browse results
		v1.GET("/jobs/:run_id", handlers.GetJob(db))
		v1.GET("/jobs/:run_id/ws", handlers.HandleRunWebSocket(db))
		v1.GET("/matches", handlers.ListMatches(db))
		v1.GET("/matches/:id/rounds", handlers.GetMatchRounds(db))

		// Admin surface: login then JWT-protected operations
		adminGroup := v1.Group("/admin")
		{
			adminGroup.POST("/login", handlers.AdminLogin(db, cfg))

			authed := adminGroup.Group("")
			authed.Use(handlers.AdminAuthMiddleware(cfg))
			{
				authed.GET("/me", handlers.AdminMe(db))
				authed.POST("/jobs", handlers.CreateJob(db))
				authed.GET("/jobs", handlers.ListJobs(db))
				authed.GET("/config", handlers.GetRuntimeConfig(db))
				authed.PUT("/config", handlers.UpdateRuntimeConfig(db))
				authed.GET("/audit", handlers.GetAdminAuditLogs(db))
			}
		}
	}
}
