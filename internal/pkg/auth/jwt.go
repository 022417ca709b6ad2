// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jupani/storefront/internal/config"
)

const (
	adminRole    = "admin"
	adminSubject = "admin"
)

// ErrInvalidSession is returned for missing, expired or tampered session tokens
var ErrInvalidSession = errors.New("invalid admin session")

// Claims represents the admin session claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates the signed admin session cookie value
type SessionManager struct {
	config *config.Config
	now    func() time.Time
}

// NewSessionManager creates a new session manager
func NewSessionManager(cfg *config.Config) *SessionManager {
	return &SessionManager{
		config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue signs a new admin session valid for the admin cookie lifetime
func (m *SessionManager) Issue() (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.config.Store.AdminCookieMaxAge)

	claims := &Claims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.App.Name,
			Subject:   adminSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.Security.SessionSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expires, nil
}

// Validate parses a session token and checks signature, expiry and role
func (m *SessionManager) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.Security.SessionSecret), nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuer(m.config.App.Name),
		jwt.WithSubject(adminSubject),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != adminRole {
		return nil, ErrInvalidSession
	}

	return claims, nil
}
