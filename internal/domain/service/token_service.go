package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by a session token.
// The encoding (subject + issuance + expiry) is an implementation detail of
// this service, not a wire contract other systems depend on.
type Claims struct {
	UserID uuid.UUID
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating session tokens.
// Tokens are stateless: validity is signature integrity plus expiry, with no
// server-side revocation list. Rotating the signing secret invalidates every
// outstanding token.
type TokenService interface {
	// Issue creates a signed token for the subject, expiring a fixed
	// duration from now.
	Issue(userID uuid.UUID) (string, error)

	// Validate checks a token string and returns its claims. It fails with
	// the domain token-expired error once the clock passes expiry, and with
	// the token-invalid error for anything malformed or tampered.
	Validate(tokenString string) (*Claims, error)
}
