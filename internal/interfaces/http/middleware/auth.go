// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/pkg/auth"
)

// AdminSessionIDKey holds the jti of the validated admin session
const AdminSessionIDKey = "admin_session_id"

const (
	adminKey        = "is_admin"
	msgUnauthorized = "Não autorizado."
)

// AdminMiddleware requires a valid signed admin session cookie
func AdminMiddleware(cfg *config.Config, sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, cfg, sessions) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": msgUnauthorized,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAdminMiddleware marks the request as admin when a valid session
// cookie is present and never rejects
func OptionalAdminMiddleware(cfg *config.Config, sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, cfg, sessions)
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg *config.Config, sessions *auth.SessionManager) bool {
	token, err := c.Cookie(cfg.Store.AdminCookieName)
	if err != nil || token == "" {
		return false
	}

	claims, err := sessions.Validate(token)
	if err != nil {
		return false
	}

	c.Set(adminKey, true)
	c.Set(AdminSessionIDKey, claims.ID)
	return true
}

// IsAdminFromContext checks if the request carries an admin session
func IsAdminFromContext(c *gin.Context) bool {
	return c.GetBool(adminKey)
}
