package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/facility-service/internal/domain"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users []*domain.User
}

// NewMemoryUserRepository returns a process-local store that keeps insertion order.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.ID == user.ID || existing.Email == user.Email {
			return ErrConflict
		}
	}
	r.users = append(r.users, user.Clone())
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, existing := range r.users {
		if existing.ID == user.ID {
			idx = i
			continue
		}
		if existing.Email == user.Email {
			return ErrConflict
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	r.users[idx] = user.Clone()
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.users {
		if existing.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user.Clone())
	}
	return result, nil
}

func (r *memoryUserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if match(user) {
			return user.Clone(), nil
		}
	}
	return nil, ErrNotFound
}
