package middleware

import (
	"Tombola/config"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AdminSessionKey marks an authenticated admin in the cookie session.
const AdminSessionKey = "admin"

// IsAdmin reports whether the request carries a valid bearer token or an
// admin session. Every request is admin when authentication is disabled.
func IsAdmin(c *gin.Context, admin config.AdminConfig) bool {
	if !admin.AuthEnabled() {
		return true
	}
	if header := c.GetHeader("Authorization"); header != "" {
		if _, err := ParseAdminToken([]byte(admin.JWTSecret), header); err == nil {
			return true
		}
	}
	return sessions.Default(c).Get(AdminSessionKey) == true
}

// AdminRequired aborts with 401 unless IsAdmin holds.
func AdminRequired(admin config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c, admin) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
