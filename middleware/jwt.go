package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	adminRole    = "admin"
	bearerPrefix = "Bearer "
	tokenIssuer  = "tombola"
)

var ErrInvalidToken = errors.New("invalid token")

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueAdminToken signs an HS256 admin token valid for ttl.
func IssueAdminToken(secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   adminRole,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAdminToken accepts the raw token or a "Bearer " header value.
func ParseAdminToken(secret []byte, raw string) (*AdminClaims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), bearerPrefix))
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Role != adminRole {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Socketio_JWT_decoder reads the "authorization" entry of a socket.io
// handshake auth object.
func Socketio_JWT_decoder(authData map[string]interface{}, secret []byte) (*AdminClaims, error) {
	raw, ok := authData["authorization"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	return ParseAdminToken(secret, raw)
}
