package auth

import (
	"testing"
	"time"

	"knowledgeos/config"
	domainerrors "knowledgeos/internal/domain/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret"

func newTestTokenService(t *testing.T) *jwtService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = testSecret

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	cfg := &config.Config{}

	_, err := NewJWTService(cfg)

	assert.Error(t, err)
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestTokenService(t)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestJWTService_Validate_ExpiredToken(t *testing.T) {
	svc := newTestTokenService(t)
	userID := uuid.New()

	// Sign a token whose expiry is already in the past.
	now := time.Now().Add(-time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	})
	tokenString, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(tokenString)

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrTokenExpired.ErrorCode(), appErr.ErrorCode())
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	svc := newTestTokenService(t)
	userID := uuid.New()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(tokenString)

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrTokenInvalid.ErrorCode(), appErr.ErrorCode())
}

func TestJWTService_Validate_Garbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.Validate("definitely.not.a-token")

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrTokenInvalid.ErrorCode(), appErr.ErrorCode())
}

func TestJWTService_Validate_MissingSubject(t *testing.T) {
	svc := newTestTokenService(t)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := noSubject.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(tokenString)

	assert.Error(t, err)
}

func TestJWTService_ConfiguredTTL(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{TokenTTL: time.Hour},
	}
	cfg.SecretKey.Access = testSecret

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	// Expiry lands about an hour out, not the default week.
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}
