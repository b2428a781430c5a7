package impl

import (
	"context"
	"testing"

	"knowledgeos/internal/domain/entity"
	domainerrors "knowledgeos/internal/domain/errors"
	"knowledgeos/internal/domain/service"
	"knowledgeos/internal/infra/persistence/memory"
	"knowledgeos/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityService(env *testEnv, oauth service.OAuthAuthService) usecase.IdentityUsecase {
	if oauth == nil {
		oauth = &fakeOAuthService{}
	}

	return NewIdentityService(IdentityServiceParams{
		TxManager:         memory.NewTransactionManager(env.store),
		UserRepo:          memory.NewUserRepository(env.store),
		Hasher:            env.hasher,
		TokenService:      env.tokens,
		GoogleAuthService: oauth,
		Logger:            testLogger(),
	})
}

func TestIdentityService_Signup_Success(t *testing.T) {
	env := newTestEnv()
	svc := newIdentityService(env, nil)
	ctx := context.Background()

	output, err := svc.Signup(ctx, &usecase.SignupInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ngEnough",
	})

	require.NoError(t, err)
	require.NotNil(t, output.User)
	assert.NotEmpty(t, output.Token)
	assert.Equal(t, "alice@example.com", output.User.Email)
	assert.Equal(t, entity.AuthProviderLocal, output.User.Provider)
	assert.False(t, output.User.IsVerified)
	assert.NotEqual(t, "Str0ngEnough", output.User.PasswordHash)

	// The session token resolves back to the created account.
	resolved, err := svc.Resolve(ctx, output.Token)
	require.NoError(t, err)
	assert.Equal(t, output.User.ID, resolved.ID)
}

func TestIdentityService_Signup_DuplicateEmail(t *testing.T) {
	env := newTestEnv()
	svc := newIdentityService(env, nil)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &usecase.SignupInput{
		Name: "Alice", Email: "alice@example.com", Password: "Str0ngEnough",
	})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &usecase.SignupInput{
		Name: "Imposter", Email: "alice@example.com", Password: "An0therSecret",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrEmailAlreadyRegistered.ErrorCode(), appErr.ErrorCode())
}

func TestIdentityService_Signup_WeakPassword(t *testing.T) {
	env := newTestEnv()
	svc := newIdentityService(env, nil)

	_, err := svc.Signup(context.Background(), &usecase.SignupInput{
		Name: "Alice", Email: "alice@example.com", Password: "short",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrPasswordStrength.ErrorCode(), appErr.ErrorCode())
}

func TestIdentityService_Login_Roundtrip(t *testing.T) {
	env := newTestEnv()
	svc := newIdentityService(env, nil)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, &usecase.SignupInput{
		Name: "Alice", Email: "alice@example.com", Password: "Str0ngEnough",
	})
	require.NoError(t, err)

	loggedIn, err := svc.Login(ctx, &usecase.LoginInput{
		Email: "alice@example.com", Password: "Str0ngEnough",
	})

	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID, loggedIn.User.ID)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestIdentityService_Login_WrongPassword(t *testing.T) {
	env := newTestEnv()
	svc := newIdentityService(env, nil)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &usecase.SignupInput{
		Name: "Alice", Email: "alice@example.com", Password: "Str0ngEnough",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &usecase.LoginInput{
		Email: "alice@example.com", Password: "WrongSecret1",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrInvalidCredentials.ErrorCode(), appErr.ErrorCode())
}

func TestIdentityService_Login_UnknownEmail(t *testing.T) {
	env := newTestEnv()
	svc := newIdentityService(env, nil)

	_, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email: "nobody@example.com", Password: "Whatever123",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrInvalidCredentials.ErrorCode(), appErr.ErrorCode())
}

func TestIdentityService_GoogleLogin_CreatesFederatedUser(t *testing.T) {
	env := newTestEnv()
	oauth := &fakeOAuthService{user: &service.OAuthUser{
		ID:            "google-123",
		Email:         "bob@example.com",
		Name:          "Bob",
		AvatarURL:     "https://pictures.test/bob.png",
		EmailVerified: true,
	}}
	svc := newIdentityService(env, oauth)

	output, err := svc.GoogleLogin(context.Background(), &usecase.GoogleLoginInput{IDToken: "valid"})

	require.NoError(t, err)
	assert.Equal(t, entity.AuthProviderFederated, output.User.Provider)
	assert.True(t, output.User.IsVerified)
	assert.Equal(t, "https://pictures.test/bob.png", output.User.ProfilePictureURL)
	assert.False(t, output.User.HasPassword())
}

func TestIdentityService_GoogleLogin_LinksExistingLocalAccount(t *testing.T) {
	env := newTestEnv()
	oauth := &fakeOAuthService{user: &service.OAuthUser{
		ID:        "google-123",
		Email:     "alice@example.com",
		Name:      "Alice G",
		AvatarURL: "https://pictures.test/alice.png",
	}}
	svc := newIdentityService(env, oauth)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, &usecase.SignupInput{
		Name: "Alice", Email: "alice@example.com", Password: "Str0ngEnough",
	})
	require.NoError(t, err)

	linked, err := svc.GoogleLogin(ctx, &usecase.GoogleLoginInput{IDToken: "valid"})

	require.NoError(t, err)
	// Same account, now federated and verified, password retained.
	assert.Equal(t, signedUp.User.ID, linked.User.ID)
	assert.Equal(t, entity.AuthProviderFederated, linked.User.Provider)
	assert.True(t, linked.User.IsVerified)
	assert.True(t, linked.User.HasPassword())

	// Local login still works after the link.
	_, err = svc.Login(ctx, &usecase.LoginInput{
		Email: "alice@example.com", Password: "Str0ngEnough",
	})
	require.NoError(t, err)
}

func TestIdentityService_GoogleLogin_InvalidToken(t *testing.T) {
	env := newTestEnv()
	oauth := &fakeOAuthService{err: domainerrors.ErrOAuthTokenInvalid}
	svc := newIdentityService(env, oauth)

	_, err := svc.GoogleLogin(context.Background(), &usecase.GoogleLoginInput{IDToken: "garbage"})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrOAuthTokenInvalid.ErrorCode(), appErr.ErrorCode())
}

func TestIdentityService_Resolve_InvalidToken(t *testing.T) {
	env := newTestEnv()
	svc := newIdentityService(env, nil)

	_, err := svc.Resolve(context.Background(), "not-a-token")

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrTokenInvalid.ErrorCode(), appErr.ErrorCode())
}
