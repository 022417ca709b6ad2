// internal/pkg/auth/password.go
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/jupani/storefront/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordNotConfigured = errors.New("admin password is not configured")
	ErrInvalidPassword       = errors.New("invalid admin password")
)

// PasswordManager checks the admin password. A bcrypt hash in
// ADMIN_PASSWORD_HASH takes precedence over the plain ADMIN_PASSWORD.
type PasswordManager struct {
	config *config.Config
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	return &PasswordManager{config: cfg}
}

// Configured reports whether any admin password is set
func (p *PasswordManager) Configured() bool {
	return p.config.Security.AdminPasswordHash != "" || p.config.Security.AdminPassword != ""
}

// Verify checks password against the configured admin password
func (p *PasswordManager) Verify(password string) error {
	sec := p.config.Security

	switch {
	case sec.AdminPasswordHash != "":
		if err := bcrypt.CompareHashAndPassword([]byte(sec.AdminPasswordHash), []byte(password)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	case sec.AdminPassword != "":
		// Hashing first keeps the comparison length independent.
		want := sha256.Sum256([]byte(sec.AdminPassword))
		got := sha256.Sum256([]byte(password))
		if subtle.ConstantTimeCompare(want[:], got[:]) != 1 {
			return ErrInvalidPassword
		}
		return nil
	default:
		return ErrPasswordNotConfigured
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}
