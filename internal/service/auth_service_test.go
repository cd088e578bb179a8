package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"croplife/internal/auth"
	"croplife/internal/cache"
	"croplife/internal/errors"
	"croplife/internal/model"
	"croplife/internal/repository"
	"croplife/internal/validation"
)

func newTestAuthService(t *testing.T) (AuthService, *repository.MemoryAdminRepository, *auth.TokenStore) {
	t.Helper()
	admins := repository.NewMemoryAdminRepository()
	store := auth.NewTokenStore(cache.NewMemory())
	svc := NewAuthService(admins, auth.NewJWTService("test-secret"), store, validation.New())
	return svc, admins, store
}

func loginDefault(t *testing.T, svc AuthService) *Session {
	t.Helper()
	session, err := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	return session
}

func TestAuthService_LoginBootstrapsDefaultAdminOnce(t *testing.T) {
	svc, admins, _ := newTestAuthService(t)
	ctx := context.Background()

	// Non-default credentials never create the record.
	_, err := svc.Login(ctx, LoginInput{Username: "farmer", Password: "secret"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
	_, err = admins.Get(ctx)
	assert.ErrorIs(t, err, errors.ErrAdminNotFound)

	session := loginDefault(t, svc)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, model.AdminSingletonID, session.Admin.ID)

	admin, err := admins.Get(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "admin", admin.PasswordHash, "password is stored hashed")

	// A second default login reuses the record.
	second := loginDefault(t, svc)
	assert.NotEqual(t, session.TokenID, second.TokenID)

	claims, err := svc.Authenticate(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, model.AdminSingletonID, claims.AdminID)
}

func TestAuthService_LoginValidation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), LoginInput{})
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgInvalidFormData, verr.Message)
	assert.Equal(t, []string{"Username is required"}, verr.Fields["username"])
	assert.Equal(t, []string{"Password is required"}, verr.Fields["password"])
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	loginDefault(t, svc)

	_, err := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "admin"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestAuthService_LoginBootstrapRace(t *testing.T) {
	repo := new(MockAdminRepository)
	svc := NewAuthService(repo, auth.NewJWTService("s"), auth.NewTokenStore(cache.NewMemory()), validation.New())
	hash, err := hashPassword("admin")
	require.NoError(t, err)

	repo.On("Get", mock.Anything).Return(nil, errors.ErrAdminNotFound).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.ErrAdminExists)
	repo.On("Get", mock.Anything).Return(&model.AdminUser{ID: 1, Username: "admin", PasswordHash: hash}, nil).Once()

	session, err := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Admin.Username)
	repo.AssertExpectations(t)
}

func TestAuthService_LogoutRevokes(t *testing.T) {
	svc, _, store := newTestAuthService(t)
	ctx := context.Background()
	session := loginDefault(t, svc)

	require.NoError(t, svc.Logout(ctx, session.Token))

	revoked, err := store.IsRevoked(ctx, session.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)

	assert.NoError(t, svc.Logout(ctx, ""))
	assert.NoError(t, svc.Logout(ctx, "garbage"))
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name          string
		input         UpdatePasswordInput
		expectedError error
		expectedField string
	}{
		{"success", UpdatePasswordInput{CurrentPassword: "admin", NewPassword: "new-secret"}, nil, ""},
		{"wrong current password", UpdatePasswordInput{CurrentPassword: "nope", NewPassword: "new-secret"}, errors.ErrIncorrectPassword, ""},
		{"short new password", UpdatePasswordInput{CurrentPassword: "admin", NewPassword: "123"}, nil, "newPassword"},
		{"missing current password", UpdatePasswordInput{NewPassword: "new-secret"}, nil, "currentPassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, store := newTestAuthService(t)
			ctx := context.Background()
			session := loginDefault(t, svc)

			err := svc.ChangePassword(ctx, session.Token, tt.input)
			revoked, _ := store.IsRevoked(ctx, session.TokenID)

			switch {
			case tt.expectedField != "":
				var verr *errors.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.expectedField)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			default:
				require.NoError(t, err)
				assert.True(t, revoked, "password rotation signs the caller out")
				_, err = svc.Login(ctx, LoginInput{Username: "admin", Password: "admin"})
				assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
				_, err = svc.Login(ctx, LoginInput{Username: "admin", Password: "new-secret"})
				assert.NoError(t, err)
				return
			}

			// Failures leave the stored password and the session untouched.
			assert.False(t, revoked)
			_, err = svc.Login(ctx, LoginInput{Username: "admin", Password: "admin"})
			assert.NoError(t, err)
		})
	}
}

func TestAuthService_ChangeUsername(t *testing.T) {
	svc, admins, _ := newTestAuthService(t)
	ctx := context.Background()
	loginDefault(t, svc)

	err := svc.ChangeUsername(ctx, UpdateUsernameInput{CurrentPassword: "admin", NewUsername: "ab"})
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"New username must be at least 3 characters"}, verr.Fields["newUsername"])

	err = svc.ChangeUsername(ctx, UpdateUsernameInput{CurrentPassword: "wrong", NewUsername: "farmer"})
	assert.ErrorIs(t, err, errors.ErrIncorrectPassword)

	require.NoError(t, svc.ChangeUsername(ctx, UpdateUsernameInput{CurrentPassword: "admin", NewUsername: "farmer"}))
	admin, err := admins.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "farmer", admin.Username)

	_, err = svc.Login(ctx, LoginInput{Username: "farmer", Password: "admin"})
	assert.NoError(t, err)
}

func TestAuthService_ChangeCredentials(t *testing.T) {
	svc, _, store := newTestAuthService(t)
	ctx := context.Background()
	session := loginDefault(t, svc)

	require.NoError(t, svc.ChangeCredentials(ctx, session.Token, UpdateCredentialsInput{
		CurrentPassword: "admin",
		NewUsername:     "farmer",
		NewPassword:     "harvest-2024",
	}))

	revoked, _ := store.IsRevoked(ctx, session.TokenID)
	assert.True(t, revoked)
	_, err := svc.Login(ctx, LoginInput{Username: "farmer", Password: "harvest-2024"})
	assert.NoError(t, err)
}

func TestAuthService_AdminNotFound(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	err := svc.ChangeUsername(context.Background(), UpdateUsernameInput{CurrentPassword: "admin", NewUsername: "farmer"})
	assert.ErrorIs(t, err, errors.ErrAdminNotFound)
}

func TestAuthService_RevocationStoreFailure(t *testing.T) {
	tokens := new(MockTokenStore)
	jwtSvc := auth.NewJWTService("s")
	svc := NewAuthService(repository.NewMemoryAdminRepository(), jwtSvc, tokens, validation.New())
	_, token, err := jwtSvc.GenerateSessionToken(1, "admin")
	require.NoError(t, err)

	tokens.On("IsRevoked", mock.Anything, mock.Anything).Return(false, stderrors.New("redis down"))

	_, err = svc.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrInvalidToken)
}
