package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
)

func TestLoadFixtures(t *testing.T) {
	fx, err := LoadFixtures()
	require.NoError(t, err)
	require.Len(t, fx.Users, 9)
	require.Len(t, fx.Issues, 5)

	emily := fx.Users[4]
	assert.Equal(t, "Emily", emily.FirstName)
	assert.False(t, emily.IsActive)
	require.NotNil(t, emily.StudentID)
	assert.Equal(t, "ART004", *emily.StudentID)

	mitchell := fx.Users[5]
	assert.Equal(t, domain.RoleAdmin, mitchell.Role)
	assert.Equal(t, domain.AdminTypeDepartment, mitchell.AdminType)
	assert.Equal(t, domain.DepartmentComputerScience, mitchell.Department)
	assert.True(t, fx.Users[0].CreatedAt.Before(fx.Users[1].CreatedAt))

	wifi := fx.Issues[1]
	assert.Equal(t, domain.IssueStatusInProgress, wifi.Status)
	require.NotNil(t, wifi.AssignedTo)
	assert.Equal(t, "6", wifi.AssignedTo.ID)
	assert.Equal(t, "2", wifi.ReportedBy.ID)
	assert.Equal(t, 2024, wifi.CreatedAt.Year())
	assert.Nil(t, fx.Issues[0].AssignedTo)
	require.NotNil(t, fx.Issues[0].Image)
	assert.Contains(t, *fx.Issues[0].Image, "data:image/jpeg;base64,")
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	issues := repository.NewMemoryIssueRepository()
	opts := SeedOptions{DefaultPassword: "secret", BcryptCost: bcrypt.MinCost}

	require.NoError(t, Seed(ctx, users, issues, opts, zap.NewNop()))
	require.NoError(t, Seed(ctx, users, issues, opts, zap.NewNop()))

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 9)
	list, err := issues.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)

	admin, err := users.GetByEmail(ctx, "admin@university.edu")
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(admin.PasswordHash, "secret"))
}
