package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// @Summary Endpoint just pings the server
// @Description Returns a basic message
// @Tags health
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Service health
// @Description Uptime and number of live rooms
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,rooms=int,uptime=string}
// @Router /health [get]
func Health(rooms RoomDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"rooms":  len(rooms.Rooms()),
			"uptime": time.Since(startedAt).Round(time.Second).String(),
		})
	}
}
