package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/marbleduel/backend/internal/admin"
)

// GetAdminAuditLogs returns recent audit entries, optionally filtered by operator.
func GetAdminAuditLogs(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if limit < 1 || limit > 200 {
			limit = 50
		}
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if offset < 0 {
			offset = 0
		}

		if username := c.Query("user"); username != "" {
			entries, err := admin.GetAdminAuditLogsByUser(db, username, limit, offset)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"logs": entries, "count": len(entries)})
			return
		}

		entries, err := admin.GetAdminAuditLogs(db, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": entries, "count": len(entries)})
	}
}
