// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/interfaces/http/middleware"
	"github.com/jupani/storefront/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles the admin login endpoints
type AuthHandler struct {
	passwords *auth.PasswordManager
	sessions  *auth.SessionManager
	config    *config.Config
	logger    *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(passwords *auth.PasswordManager, sessions *auth.SessionManager, cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		passwords: passwords,
		sessions:  sessions,
		config:    cfg,
		logger:    logger,
	}
}

// LoginRequest is the admin login payload
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.passwords.Verify(req.Password); err != nil {
		h.logger.WithField("client_ip", c.ClientIP()).Warn("Admin login rejected")
		respondError(c, h.logger, err)
		return
	}

	token, expiresAt, err := h.sessions.Issue()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setCookie(c, h.config, h.config.Store.AdminCookieName, token, int(h.config.Store.AdminCookieMaxAge.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data": gin.H{
			"ok":        true,
			"expiresAt": expiresAt,
		},
	})
}

// Logout handles POST /admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	setCookie(c, h.config, h.config.Store.AdminCookieName, "", -1)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
		"data":    gin.H{"ok": true},
	})
}

// Session handles GET /admin/session
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data": gin.H{
			"authenticated": middleware.IsAdminFromContext(c),
		},
	})
}
