package middleware

import (
	"Tombola/config"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "tombolasession"

// SetUpMiddleware installs the session store and the CORS policy.
func SetUpMiddleware(r *gin.Engine, cfg *config.Config) {
	key := cfg.Admin.SessionKey
	if key == "" {
		key = cfg.Admin.JWTSecret
	}
	store := cookie.NewStore([]byte(key))
	store.Options(sessions.Options{
		Path:     "/",
		Secure:   cfg.UseHTTPS,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cfg.Admin.TokenTTL.Seconds()),
	})
	r.Use(sessions.Sessions(sessionName, store))

	origins := cfg.CORSOrigins
	allowAll := len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	if allowAll {
		// credentials forbid a literal "*"
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))
}
