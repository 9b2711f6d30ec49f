package utils

import (
	"Tombola/utils/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one access log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()
		fields := []interface{}{
			"status", status,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"latency", latency,
			"ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Log.Errorw("[HTTP]", fields...)
		case status >= http.StatusBadRequest:
			logger.Log.Warnw("[HTTP]", fields...)
		default:
			logger.Log.Debugw("[HTTP]", fields...)
		}
	}
}

// ErrorHandler turns errors attached with c.Error into a JSON 500 when the
// handler did not write a response itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, err := range c.Errors {
			logger.Errorf("[HTTP-ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err.Err)
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}
}
