// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"knowledgeos/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new local account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a local password login.
type LoginInput struct {
	Email    string
	Password string
}

// GoogleLoginInput defines the data required for a federated Google login.
type GoogleLoginInput struct {
	IDToken string
}

// --- Output DTOs ---

// AuthOutput returns the session token and user after a successful
// signup or login. Every authentication path ends the same way.
type AuthOutput struct {
	Token string
	User  *entity.User
}

// IdentityUsecase defines the interface for identity-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type IdentityUsecase interface {
	// Signup registers a local account and starts its first session.
	Signup(ctx context.Context, input *SignupInput) (*AuthOutput, error)

	// Login authenticates a local account by password.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// GoogleLogin authenticates via a Google ID token, creating or linking
	// the account keyed by its email.
	GoogleLogin(ctx context.Context, input *GoogleLoginInput) (*AuthOutput, error)

	// Resolve validates a session token and loads its user. Used by the
	// authentication middleware on every protected request.
	Resolve(ctx context.Context, tokenString string) (*entity.User, error)
}
