// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"knowledgeos/internal/delivery/http/response"
	"knowledgeos/internal/domain/entity"
	"knowledgeos/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for identity-related handlers.
type AuthHandler struct {
	uc     usecase.IdentityUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.IdentityUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginRequest also binds form posts where the email arrives in a
// "username" field, the shape OAuth2 password-style clients send.
type loginRequest struct {
	Email    string `json:"email" form:"username" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// googleLoginRequest accepts the profile fields Google sign-in widgets post
// alongside the token, but only the verified token is trusted: email, name
// and picture are decoded from it server-side, never from the request body.
type googleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// authResponse is the wire shape shared by every authentication endpoint.
// The password hash never leaves the server.
type authResponse struct {
	Token string       `json:"token"`
	User  *userPayload `json:"user"`
}

type userPayload struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Provider          string    `json:"provider"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	IsVerified        bool      `json:"is_verified"`
	CreatedAt         time.Time `json:"created_at"`
}

func toUserPayload(user *entity.User) *userPayload {
	return &userPayload{
		ID:                user.ID.String(),
		Email:             user.Email,
		Name:              user.Name,
		Provider:          user.Provider.String(),
		ProfilePictureURL: user.ProfilePictureURL,
		IsVerified:        user.IsVerified,
		CreatedAt:         user.CreatedAt,
	}
}

// Signup handles local account registration.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid signup input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Signup(c.Request().Context(), &usecase.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, &authResponse{
		Token: output.Token,
		User:  toUserPayload(output.User),
	}, "User registered successfully")
}

// Login handles local password login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &authResponse{
		Token: output.Token,
		User:  toUserPayload(output.User),
	}, "Login successful")
}

// GoogleLogin handles federated login via a Google ID token.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid Google login input")
	}
	if req.IDToken == "" {
		// Also accept the form-encoded shape Google posts in redirect mode.
		req.IDToken = c.FormValue("id_token")
	}
	if req.IDToken == "" {
		return response.BadRequest(c, "INVALID_INPUT", "ID token is required")
	}

	output, err := h.uc.GoogleLogin(c.Request().Context(), &usecase.GoogleLoginInput{
		IDToken: req.IDToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &authResponse{
		Token: output.Token,
		User:  toUserPayload(output.User),
	}, "Login successful")
}
