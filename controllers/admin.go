package controllers

import (
	"Tombola/config"
	"Tombola/middleware"
	"Tombola/utils/logger"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// @Summary Admin login
// @Description Checks the operator password, opens a session and returns a JWT for the socket.io handshake
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Param password formData string true "Admin password"
// @Success 200 {object} object{token=string,expiresAt=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /api/admin/login [post]
func AdminLogin(admin config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		password := c.PostForm("password")
		if strings.TrimSpace(password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}
		if !admin.AuthEnabled() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Admin authentication is disabled"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
			logger.Warnf("[LOGIN-ERROR] failed admin login from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password!"})
			return
		}

		token, err := middleware.IssueAdminToken([]byte(admin.JWTSecret), admin.TokenTTL)
		if err != nil {
			_ = c.Error(err)
			return
		}

		session := sessions.Default(c)
		session.Set(middleware.AdminSessionKey, true)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session!"})
			return
		}
		logger.Infof("[LOGIN] admin logged in from %s", c.ClientIP())
		c.JSON(http.StatusOK, gin.H{
			"token":     token,
			"expiresAt": time.Now().Add(admin.TokenTTL).UTC().Format(time.RFC3339),
		})
	}
}

// @Summary Admin logout
// @Description Deletes the admin session
// @Tags admin
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /api/admin/logout [delete]
func AdminLogout(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(middleware.AdminSessionKey) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}
	session.Delete(middleware.AdminSessionKey)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Current admin
// @Tags admin
// @Produce json
// @Success 200 {object} object{admin=bool,authEnabled=bool}
// @Failure 401 {object} object{error=string}
// @Router /api/admin/me [get]
func AdminMe(admin config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": true, "authEnabled": admin.AuthEnabled()})
	}
}
