package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util"
)

// UserService exposes account administration. Every operation requires an admin caller.
type UserService struct {
	users repository.UserRepository
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{users: deps.UserRepo}
}

// UserFilter narrows ListUsers. An empty or "all" role keeps everyone.
type UserFilter struct {
	Role domain.Role
}

// UserList is the result of ListUsers.
type UserList struct {
	Users []domain.User `json:"users"`
	Stats RoleCounts    `json:"stats"`
}

// UserPatch holds the fields an admin may change; nil leaves a field unchanged.
type UserPatch struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Department *domain.Department
	Role       *domain.Role
	AdminType  *domain.AdminType
	StudentID  *string
	IsActive   *bool
}

// ListUsers returns users matching filter with role counts over the same set.
func (s *UserService) ListUsers(ctx context.Context, callerID string, filter UserFilter) (*UserList, error) {
	if _, err := requireAdminCaller(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	filtered := FilterUsersByRole(all, filter.Role)
	return &UserList{Users: filtered, Stats: CountByRole(filtered)}, nil
}

// GetUser fetches one account.
func (s *UserService) GetUser(ctx context.Context, callerID, id string) (*domain.User, error) {
	if _, err := requireAdminCaller(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return user, nil
}

// UpdateUser shallow-merges patch onto the account.
func (s *UserService) UpdateUser(ctx context.Context, callerID, id string, patch UserPatch) (*domain.User, error) {
	if _, err := requireAdminCaller(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}

	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Email != nil {
		user.Email = normalizeEmail(*patch.Email)
	}
	if patch.Department != nil {
		user.Department = *patch.Department
	}
	if patch.Role != nil {
		user.Role = *patch.Role
		if user.Role != domain.RoleAdmin {
			user.AdminType = ""
		}
	}
	if patch.AdminType != nil {
		user.AdminType = *patch.AdminType
	}
	if patch.StudentID != nil {
		sid := strings.TrimSpace(*patch.StudentID)
		user.StudentID = &sid
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, userWriteError(err, user)
	}
	return user, nil
}

// DeleteUser removes an account. Issues the user reported or was assigned are kept.
func (s *UserService) DeleteUser(ctx context.Context, callerID, id string) error {
	if _, err := requireAdminCaller(ctx, s.users, callerID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, "user", id)
	}
	return nil
}

// ToggleUserStatus flips the active flag.
func (s *UserService) ToggleUserStatus(ctx context.Context, callerID, id string) (*domain.User, error) {
	if _, err := requireAdminCaller(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	user.IsActive = !user.IsActive
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return user, nil
}

// GetUserStats aggregates the full user collection.
func (s *UserService) GetUserStats(ctx context.Context, callerID string) (*UserStats, error) {
	if _, err := requireAdminCaller(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats := ComputeUserStats(all)
	return &stats, nil
}

// SearchMaintenanceStaff finds assignable regular users by name or email.
func (s *UserService) SearchMaintenanceStaff(ctx context.Context, callerID, term string) ([]domain.User, error) {
	if _, err := requireAdminCaller(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return MatchMaintenanceStaff(all, strings.TrimSpace(term)), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userWriteError(err error, user *domain.User) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return apperrors.NewConflict("email already in use", map[string]any{"email": user.Email})
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("user", map[string]any{"user_id": user.ID})
	default:
		return apperrors.MapError(err)
	}
}
