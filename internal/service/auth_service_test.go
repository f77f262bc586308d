package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util"
)

func TestRegisterCreatesActiveUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session, err := env.authSvc.Register(ctx, RegisterInput{
		FirstName:  "Nora",
		LastName:   "Quinn",
		Email:      "Nora.Quinn@University.edu",
		Password:   "s3cretpass",
		Department: domain.DepartmentArts,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "nora.quinn@university.edu", session.User.Email)
	assert.Equal(t, domain.RoleUser, session.User.Role)
	assert.True(t, session.User.IsActive)
	assert.NotEqual(t, "s3cretpass", session.User.PasswordHash)

	claims, err := env.authSvc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)

	_, err = env.authSvc.Login(ctx, "nora.quinn@university.edu", "s3cretpass")
	require.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authSvc.Register(context.Background(), RegisterInput{
		FirstName:  "John",
		LastName:   "Again",
		Email:      "student@university.edu",
		Password:   "whatever1",
		Department: domain.DepartmentArts,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session, err := env.authSvc.Login(ctx, "student@university.edu", seedPassword)
	require.NoError(t, err)
	assert.Equal(t, johnID, session.User.ID)

	cases := map[string][2]string{
		"unknown":  {"nobody@university.edu", seedPassword},
		"inactive": {"emily.davis@university.edu", seedPassword},
		"wrong pw": {"student@university.edu", "nope"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.authSvc.Login(ctx, tc[0], tc[1])
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
			assert.Equal(t, invalidCredentials, apperrors.ToDomainError(err).Message)
		})
	}
}

func TestProfileUpdateAndPasswordChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.authSvc.Profile(ctx, "ghost")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	name := "Johnny"
	user, err := env.authSvc.UpdateProfile(ctx, johnID, ProfilePatch{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", user.FirstName)
	assert.Equal(t, domain.RoleUser, user.Role)

	err = env.authSvc.ChangePassword(ctx, johnID, "wrong", "newpass123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	require.NoError(t, env.authSvc.ChangePassword(ctx, johnID, seedPassword, "newpass123"))
	_, err = env.authSvc.Login(ctx, "student@university.edu", seedPassword)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, err = env.authSvc.Login(ctx, "student@university.edu", "newpass123")
	require.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sessions := auth.NewMemorySessionStore()
	env.authSvc.sessions = sessions

	expires := time.Now().Add(time.Hour)
	require.NoError(t, env.authSvc.Logout(ctx, "token-1", expires))

	revoked, err := sessions.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLoginMatchesEmailCaseInsensitively(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.authSvc.Login(context.Background(), "  STUDENT@University.edu ", seedPassword)
	require.NoError(t, err)
	assert.Equal(t, johnID, session.User.ID)
}
