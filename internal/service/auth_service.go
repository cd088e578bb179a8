package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"croplife/internal/auth"
	"croplife/internal/errors"
	"croplife/internal/logging"
	"croplife/internal/model"
	"croplife/internal/repository"
	"croplife/internal/validation"
)

const bcryptCost = 10

// Default credentials accepted on a system with no admin record.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin"
)

// MsgInvalidFormData is the summary attached to rejected admin forms.
const MsgInvalidFormData = "Invalid form data."

// LoginInput is the login form.
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UpdateUsernameInput is the username rotation form.
type UpdateUsernameInput struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword" validate:"required"`
	NewUsername     string `json:"newUsername" form:"newUsername" validate:"required,min=3"`
}

// UpdatePasswordInput is the password rotation form.
type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required,min=6"`
}

// UpdateCredentialsInput rotates username and password together.
type UpdateCredentialsInput struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword" validate:"required"`
	NewUsername     string `json:"newUsername" form:"newUsername" validate:"required,min=3"`
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required,min=6"`
}

// Session is a freshly minted session token.
type Session struct {
	TokenID   string
	Token     string
	ExpiresAt time.Time
	Admin     *model.AdminUser
}

// AuthService handles admin authentication and credential rotation.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*Session, error)
	// Authenticate validates a session token and rejects revoked ones.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	// Logout revokes token when it is still valid. Invalid tokens are ignored.
	Logout(ctx context.Context, token string) error
	CurrentAdmin(ctx context.Context) (*model.AdminUser, error)
	ChangeUsername(ctx context.Context, in UpdateUsernameInput) error
	// ChangePassword also revokes token so the caller must log in again.
	ChangePassword(ctx context.Context, token string, in UpdatePasswordInput) error
	ChangeCredentials(ctx context.Context, token string, in UpdateCredentialsInput) error
}

type authService struct {
	adminRepo  repository.AdminRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	validator  *validation.Validator
}

// NewAuthService creates a new authentication service.
func NewAuthService(adminRepo repository.AdminRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, validator *validation.Validator) AuthService {
	return &authService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		validator:  validator,
	}
}

// Login checks credentials and mints a session token. When no admin record
// exists the default pair creates it.
func (s *authService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.Get(ctx)
	if stderrors.Is(err, errors.ErrAdminNotFound) {
		admin, err = s.bootstrap(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	if admin.Username != in.Username || !checkPassword(admin.PasswordHash, in.Password) {
		return nil, errors.ErrInvalidCredentials
	}

	tokenID, token, err := s.jwtService.GenerateSessionToken(admin.ID, admin.Username)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("admin signed in", zap.String("username", admin.Username))
	return &Session{
		TokenID:   tokenID,
		Token:     token,
		ExpiresAt: time.Now().Add(auth.SessionTTL),
		Admin:     admin,
	}, nil
}

// bootstrap creates the default admin when the submitted pair matches it.
func (s *authService) bootstrap(ctx context.Context, in LoginInput) (*model.AdminUser, error) {
	if in.Username != DefaultAdminUsername || in.Password != DefaultAdminPassword {
		return nil, errors.ErrInvalidCredentials
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	admin := &model.AdminUser{Username: DefaultAdminUsername, PasswordHash: hash}
	err = s.adminRepo.Create(ctx, admin)
	if stderrors.Is(err, errors.ErrAdminExists) {
		// Lost a race with a concurrent first login.
		return s.adminRepo.Get(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("create default admin: %w", err)
	}

	logging.FromContext(ctx).Warn("created default admin account; change its credentials")
	return admin, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: revoked", errors.ErrInvalidToken)
	}
	return claims, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}
	return s.revoke(ctx, claims)
}

func (s *authService) CurrentAdmin(ctx context.Context) (*model.AdminUser, error) {
	return s.adminRepo.Get(ctx)
}

// ChangeUsername renames the admin. Existing sessions keep the old name
// until they expire.
func (s *authService) ChangeUsername(ctx context.Context, in UpdateUsernameInput) error {
	if err := s.validate(&in); err != nil {
		return err
	}
	admin, err := s.confirm(ctx, in.CurrentPassword)
	if err != nil {
		return err
	}
	admin.Username = in.NewUsername
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return fmt.Errorf("update username: %w", err)
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, token string, in UpdatePasswordInput) error {
	if err := s.validate(&in); err != nil {
		return err
	}
	admin, err := s.confirm(ctx, in.CurrentPassword)
	if err != nil {
		return err
	}
	hash, err := hashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return s.Logout(ctx, token)
}

func (s *authService) ChangeCredentials(ctx context.Context, token string, in UpdateCredentialsInput) error {
	if err := s.validate(&in); err != nil {
		return err
	}
	admin, err := s.confirm(ctx, in.CurrentPassword)
	if err != nil {
		return err
	}
	hash, err := hashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	admin.Username = in.NewUsername
	admin.PasswordHash = hash
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}
	return s.Logout(ctx, token)
}

// confirm loads the admin and checks the current password.
func (s *authService) confirm(ctx context.Context, currentPassword string) (*model.AdminUser, error) {
	admin, err := s.adminRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !checkPassword(admin.PasswordHash, currentPassword) {
		return nil, errors.ErrIncorrectPassword
	}
	return admin, nil
}

func (s *authService) revoke(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokenStore.Revoke(ctx, claims.ID, s.jwtService.RemainingTTL(claims)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *authService) validate(form interface{}) error {
	err := s.validator.Validate(form)
	if err == nil {
		return nil
	}
	fields, ok := validation.FieldErrors(err)
	if !ok {
		return fmt.Errorf("validate form: %w", err)
	}
	return errors.NewValidationError(MsgInvalidFormData, fields)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
