package controllers

import (
	"Tombola/models/postgres"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultGamesLimit = 20

// GameArchive lists finished games, newest first.
type GameArchive interface {
	RecentGames(ctx context.Context, limit int) ([]postgres.GameRecord, error)
}

// @Summary Finished games
// @Description Most recent archived games. 503 when no archive is configured.
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum number of games (1-100)"
// @Success 200 {array} postgres.GameRecord
// @Failure 400 {object} object{error=string}
// @Failure 503 {object} object{error=string}
// @Router /api/admin/games [get]
func ListGames(archive GameArchive) gin.HandlerFunc {
	return func(c *gin.Context) {
		if archive == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game archive is not configured"})
			return
		}
		limit := defaultGamesLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
				return
			}
			limit = n
		}
		games, err := archive.RecentGames(c.Request.Context(), limit)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, games)
	}
}
