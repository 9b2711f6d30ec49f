package middleware

import (
	"Tombola/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAdmin = config.AdminConfig{
	PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholde",
	JWTSecret:    "test-secret",
	TokenTTL:     time.Hour,
}

func setupRouter(admin config.AdminConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(sessionName, cookie.NewStore([]byte("k"))))
	r.GET("/private", AdminRequired(admin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminRequired(t *testing.T) {
	token, err := IssueAdminToken([]byte(testAdmin.JWTSecret), time.Hour)
	require.NoError(t, err)
	forged, err := IssueAdminToken([]byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no credentials", "", http.StatusUnauthorized},
		{"bearer token", "Bearer " + token, http.StatusOK},
		{"raw token", token, http.StatusOK},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
	}

	router := setupRouter(testAdmin)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAdminRequiredDisabled(t *testing.T) {
	router := setupRouter(config.AdminConfig{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/private", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExpiredToken(t *testing.T) {
	token, err := IssueAdminToken([]byte("s"), -time.Minute)
	require.NoError(t, err)
	_, err = ParseAdminToken([]byte("s"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSocketioJWTDecoder(t *testing.T) {
	token, err := IssueAdminToken([]byte("s"), time.Hour)
	require.NoError(t, err)

	claims, err := Socketio_JWT_decoder(map[string]interface{}{"authorization": "Bearer " + token}, []byte("s"))
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	_, err = Socketio_JWT_decoder(map[string]interface{}{}, []byte("s"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
