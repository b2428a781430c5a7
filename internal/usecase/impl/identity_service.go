// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "knowledgeos/internal/delivery/context"
	"knowledgeos/internal/domain/entity"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/domain/repository"
	"knowledgeos/internal/domain/service"
	"knowledgeos/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// identityService implements the IdentityUsecase interface.
type identityService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	logger            *slog.Logger
}

// IdentityServiceParams holds dependencies for IdentityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	UserRepo          repository.UserRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	Logger            *slog.Logger
}

// NewIdentityService is the constructor for identityService. It receives all dependencies as interfaces.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	return &identityService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup orchestrates the complete local registration process. The email
// check and insert run in one transaction so concurrent signups for the same
// address cannot both succeed.
func (srv *identityService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during signup", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during signup")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check existing email")
		}

		newUser := &entity.User{
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: hashedPassword,
			Provider:     entity.AuthProviderLocal,
			IsVerified:   false,
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during signup")
		}

		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Signup failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	token, err := srv.tokenService.Issue(registeredUser.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token after signup", slog.Any("userID", registeredUser.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token after signup")
	}

	srv.log(ctx).Debug("Signup completed", slog.Any("userID", registeredUser.ID))

	return &usecase.AuthOutput{Token: token, User: registeredUser}, nil
}

// Login authenticates a local password login. A missing account, a
// federated-only account and a wrong password are indistinguishable to the
// caller.
func (srv *identityService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// A federated account without a password cannot log in locally. Report
	// the same error as a wrong password to avoid leaking what exists.
	if !user.HasPassword() || !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token during login", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// GoogleLogin handles the user login or registration via Google Sign-In.
// Accounts are keyed by email: an existing local account with the same email
// is linked to the federated identity rather than duplicated.
func (srv *identityService) GoogleLogin(ctx context.Context, input *usecase.GoogleLoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Handling Google login")

	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		srv.log(ctx).Warn("Google ID token verification failed", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthTokenInvalid.WrapMessage("failed to verify Google ID token")
	}

	var loggedInUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, findErr := userRepo.FindByEmail(ctx, oauthUser.Email)
		if errors.Is(findErr, repository.ErrUserNotFound) {
			return srv.createFederatedUser(ctx, userRepo, oauthUser, &loggedInUser)
		}
		if findErr != nil {
			return errors.Wrap(findErr, "failed to find user by email")
		}

		return srv.linkFederatedIdentity(ctx, userRepo, user, oauthUser, &loggedInUser)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute Google login transaction", slog.Any("error", err))

		return nil, err
	}

	token, err := srv.tokenService.Issue(loggedInUser.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token after Google login", slog.Any("userID", loggedInUser.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token")
	}

	return &usecase.AuthOutput{Token: token, User: loggedInUser}, nil
}

// createFederatedUser creates a new account for a first-time Google login.
// Federated accounts are verified at creation and carry no password.
func (srv *identityService) createFederatedUser(ctx context.Context, userRepo repository.UserRepository, oauthUser *service.OAuthUser, loggedInUser **entity.User) error {
	srv.log(ctx).Info("Google user not found, creating new user", slog.String("email", oauthUser.Email))

	newUser := &entity.User{
		Name:              oauthUser.Name,
		Email:             oauthUser.Email,
		Provider:          entity.AuthProviderFederated,
		ProfilePictureURL: oauthUser.AvatarURL,
		IsVerified:        true,
	}

	if err := userRepo.Create(ctx, newUser); err != nil {
		return errors.Wrap(err, "failed to create user for Google login")
	}

	*loggedInUser = newUser

	return nil
}

// linkFederatedIdentity converts an existing account to the federated
// provider. The password hash is kept so local login still works afterwards.
func (srv *identityService) linkFederatedIdentity(ctx context.Context, userRepo repository.UserRepository, user *entity.User, oauthUser *service.OAuthUser, loggedInUser **entity.User) error {
	srv.log(ctx).Info("Linking Google identity to existing account", slog.Any("userID", user.ID))

	user.Provider = entity.AuthProviderFederated
	user.IsVerified = true
	if oauthUser.AvatarURL != "" {
		user.ProfilePictureURL = oauthUser.AvatarURL
	}
	if user.Name == "" {
		user.Name = oauthUser.Name
	}

	if err := userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to link federated identity")
	}

	*loggedInUser = user

	return nil
}

// Resolve validates a bearer token and loads the authenticated user. Any
// failure surfaces as the generic unauthenticated error so callers cannot
// probe which accounts exist.
func (srv *identityService) Resolve(ctx context.Context, tokenString string) (*entity.User, error) {
	claims, err := srv.tokenService.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Token subject no longer exists", slog.Any("userID", claims.UserID))

			return nil, domainerrors.ErrUnauthenticated.WrapMessage("token subject not found")
		}

		return nil, errors.Wrap(err, "failed to load token subject")
	}

	return user, nil
}
