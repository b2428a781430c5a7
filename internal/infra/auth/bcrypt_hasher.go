// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"knowledgeos/config"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/domain/service"
)

// Default strength policy when none is configured. The cost stays within
// interactive login latency while resisting offline brute force.
const (
	defaultMinLength = 8
	defaultMaxLength = 128
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	policy := config.PasswordStrengthConfig{
		MinLength:        defaultMinLength,
		MaxLength:        defaultMaxLength,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
	}
	if cfg.PasswordStrength != nil {
		policy = *cfg.PasswordStrength
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength enforces the configured strength policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if len(password) < h.policy.MinLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password is too short")
	}
	if h.policy.MaxLength > 0 && len(password) > h.policy.MaxLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password is too long")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}

	if h.policy.RequireUppercase && !hasUpper {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one uppercase letter")
	}
	if h.policy.RequireLowercase && !hasLower {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one lowercase letter")
	}
	if h.policy.RequireNumbers && !hasNumber {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one number")
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return domainerrors.ErrPasswordStrength.WrapMessage("password contains forbidden words")
	}

	return nil
}
