package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/marbleduel/backend/internal/jobs"
)

// ListMatches returns recently simulated matches.
func ListMatches(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		matches, err := jobs.RecentMatches(db, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list matches"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
	}
}

// GetMatchRounds returns the round-by-round breakdown of one match, event
// logs included.
func GetMatchRounds(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
			return
		}

		rounds, err := jobs.MatchRounds(db, matchID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rounds"})
			return
		}
		if len(rounds) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rounds": rounds})
	}
}
