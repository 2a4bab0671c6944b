package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/marbleduel/backend/internal/admin"
	"github.com/marbleduel/backend/internal/jobs"
)

// CreateJob enqueues a render run. Seed and category are optional; a zero
// seed is replaced with the current time so reruns differ.
func CreateJob(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Seed     int64  `json:"seed"`
			Category string `json:"category"`
		}
		// An empty body is fine; everything defaults.
		c.ShouldBindJSON(&req)

		if req.Seed == 0 {
			req.Seed = time.Now().UnixNano()
		}

		job, err := jobs.Enqueue(db, req.Seed, req.Category)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue job"})
			return
		}

		admin.LogAdminAction(db, c.GetString("admin_user"), c.ClientIP(), c.FullPath(), "enqueue_job",
			map[string]interface{}{"run_id": job.RunID, "seed": job.Seed, "category": req.Category}, true)

		c.JSON(http.StatusCreated, job)
	}
}

// GetJob returns one job by run id.
func GetJob(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("run_id")
		job, err := jobs.Get(db, runID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

// ListJobs returns the most recent jobs. Limit defaults to 20, capped at 100.
func ListJobs(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		list, err := jobs.Recent(db, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobs": list, "count": len(list)})
	}
}
