package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/marbleduel/backend/internal/admin"
)

// GetRuntimeConfig returns all runtime config entries.
func GetRuntimeConfig(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := admin.GetAllRuntimeConfig(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load config"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"config": configs})
	}
}

// UpdateRuntimeConfig updates one runtime config key.
func UpdateRuntimeConfig(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Key   string `json:"key" binding:"required"`
			Value string `json:"value" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "key and value required"})
			return
		}

		username := c.GetString("admin_user")
		if err := admin.UpdateRuntimeConfigValue(db, req.Key, req.Value, username); err != nil {
			admin.LogAdminAction(db, username, c.ClientIP(), c.FullPath(), "update_config",
				map[string]interface{}{"key": req.Key, "value": req.Value, "error": err.Error()}, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		admin.LogAdminAction(db, username, c.ClientIP(), c.FullPath(), "update_config",
			map[string]interface{}{"key": req.Key, "value": req.Value}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
