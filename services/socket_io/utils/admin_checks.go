package socketio_utils

import (
	"Tombola/config"
	"Tombola/middleware"
	"Tombola/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// VerifyAdminConnection checks the JWT sent in the handshake auth object.
// Players connect without one, so a missing token is not an error; a token
// that fails to verify is reported to the client.
func VerifyAdminConnection(client *socket.Socket, admin config.AdminConfig) bool {
	if !admin.AuthEnabled() {
		return true
	}
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		return false
	}
	if _, exists := authData["authorization"]; !exists {
		return false
	}
	if _, err := middleware.Socketio_JWT_decoder(authData, []byte(admin.JWTSecret)); err != nil {
		logger.Warnf("[AUTH-ERROR] socket %s sent an invalid admin token: %v", client.Id(), err)
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Set it on the 'authorization' field with the 'Bearer ' prefix.",
		})
		return false
	}
	return true
}
