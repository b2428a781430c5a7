// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"knowledgeos/config"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/domain/service"
)

// defaultTokenTTL is the fixed session lifetime when none is configured.
const defaultTokenTTL = 7 * 24 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret string        // Process-wide signing secret; rotating it invalidates all outstanding tokens.
	ttl    time.Duration // Fixed token lifetime from issuance.
}

// NewJWTService is the constructor for jwtService.
// The signing secret is mandatory: there is no hardcoded fallback.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := defaultTokenTTL
	if cfg.Auth != nil && cfg.Auth.TokenTTL > 0 {
		ttl = cfg.Auth.TokenTTL
	}

	return &jwtService{
		secret: cfg.SecretKey.Access,
		ttl:    ttl,
	}, nil
}

// Issue creates a signed session token embedding the subject id, issuance
// time and an expiry a fixed duration from now.
func (s *jwtService) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Validate checks the signature and expiry of a token string. Parsing always
// runs to completion regardless of which check fails, so the failure mode is
// not observable through parse timing.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage("token lapsed expiry")
		}

		return nil, domainerrors.ErrTokenInvalid.WrapMessage("failed to parse token structure")
	}
	if !token.Valid {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token failed validation")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("unexpected claims type")
	}

	sub, err := mapClaims.GetSubject()
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("subject missing from token")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("subject is not a valid id")
	}

	claims := &service.Claims{UserID: userID}
	if exp, expErr := mapClaims.GetExpirationTime(); expErr == nil && exp != nil {
		claims.ExpiresAt = exp
	}
	if iat, iatErr := mapClaims.GetIssuedAt(); iatErr == nil && iat != nil {
		claims.IssuedAt = iat
	}
	claims.Subject = sub

	return claims, nil
}
