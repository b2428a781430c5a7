package middleware

import (
	"strings"

	"knowledgeos/internal/delivery/http/response"
	"knowledgeos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextKeyUserID = "userID"
	ContextKeyUser   = "user"
)

// AuthMiddleware guards routes behind bearer token authentication.
type AuthMiddleware struct {
	identityUC usecase.IdentityUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(identityUC usecase.IdentityUsecase) *AuthMiddleware {
	return &AuthMiddleware{identityUC: identityUC}
}

// Authenticate validates the bearer token and resolves the calling user.
// Every failure mode answers 401 without distinguishing missing, malformed,
// expired or orphaned tokens beyond the error detail.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid token format, must be Bearer token")
		}

		user, err := m.identityUC.Resolve(c.Request().Context(), tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid or expired token")
		}

		// Set user info on the context for handlers to use
		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUser, user)

		return next(c)
	}
}
