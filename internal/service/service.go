package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util"
)

// Clock returns the current time; services default to time.Now.
type Clock func() time.Time

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// resolveCaller loads the caller or fails with Unauthenticated.
func resolveCaller(ctx context.Context, users repository.UserRepository, callerID string) (*domain.User, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}
	user, err := users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("not authenticated")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// requireAdminCaller loads the caller and fails with Forbidden unless it is an admin.
func requireAdminCaller(ctx context.Context, users repository.UserRepository, callerID string) (*domain.User, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, apperrors.NewForbidden("admin access required")
	}
	user, err := users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewForbidden("admin access required")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.IsAdmin() {
		return nil, apperrors.NewForbidden("admin access required")
	}
	return user, nil
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{resource + "_id": id})
	}
	return apperrors.MapError(err)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, now Clock, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
