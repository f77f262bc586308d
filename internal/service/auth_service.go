package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util"
)

const invalidCredentials = "invalid email or password"

// AuthService coordinates registration, login and session flows.
type AuthService struct {
	users      repository.UserRepository
	sessions   auth.SessionStore
	tokenMgr   *auth.TokenManager
	bcryptCost int
	now        Clock
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	SessionStore auth.SessionStore
	Clock        Clock
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionStore,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		bcryptCost: cfg.BcryptCost,
		now:        clockOrDefault(deps.Clock),
	}
}

// RegisterInput describes a self-service signup.
type RegisterInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Department domain.Department
	StudentID  *string
}

// ProfilePatch holds the fields a user may change on their own account.
type ProfilePatch struct {
	FirstName  *string
	LastName   *string
	Department *domain.Department
	StudentID  *string
}

// Session is an authenticated user with a freshly issued token.
type Session struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Register creates an active regular account and signs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Department:   input.Department,
		Role:         domain.RoleUser,
		StudentID:    input.StudentID,
		IsActive:     true,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, userWriteError(err, user)
	}
	return s.issue(user)
}

// Login authenticates by email and password. Unknown, inactive and
// wrong-password accounts fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}
	return s.issue(user)
}

// Profile returns the caller's account.
func (s *AuthService) Profile(ctx context.Context, callerID string) (*domain.User, error) {
	return resolveCaller(ctx, s.users, callerID)
}

// UpdateProfile shallow-merges patch onto the caller's account.
func (s *AuthService) UpdateProfile(ctx context.Context, callerID string, patch ProfilePatch) (*domain.User, error) {
	user, err := resolveCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}
	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Department != nil {
		user.Department = *patch.Department
	}
	if patch.StudentID != nil {
		sid := strings.TrimSpace(*patch.StudentID)
		user.StudentID = &sid
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, userWriteError(err, user)
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, callerID, currentPassword, newPassword string) error {
	user, err := resolveCaller(ctx, s.users, callerID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("current password is incorrect", nil)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return userWriteError(err, user)
	}
	return nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.sessions == nil || tokenID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token.Token, ExpiresAt: token.ExpiresAt}, nil
}
