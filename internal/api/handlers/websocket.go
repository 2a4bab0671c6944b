package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/marbleduel/backend/internal/jobs"
	"github.com/marbleduel/backend/internal/ws"
)

// HandleRunWebSocket upgrades the connection and streams pipeline progress
// for one run. The run must exist; completed runs still connect so clients
// can show the final state.
func HandleRunWebSocket(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("run_id")

		if _, err := jobs.Get(db, runID); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch run"})
			return
		}

		ws.GameHub.ServeProgress(c.Writer, c.Request, runID)
	}
}
