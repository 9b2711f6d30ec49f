package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logger(), ErrorHandler())
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	router.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.JSON(http.StatusTeapot, gin.H{"error": "custom"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/handled", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
}
