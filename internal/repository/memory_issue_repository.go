package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/facility-service/internal/domain"
)

type memoryIssueRepository struct {
	mu     sync.RWMutex
	issues []*domain.Issue
}

// NewMemoryIssueRepository returns a process-local store that keeps insertion order.
func NewMemoryIssueRepository() IssueRepository {
	return &memoryIssueRepository{}
}

func (r *memoryIssueRepository) Create(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.issues {
		if existing.ID == issue.ID {
			return ErrConflict
		}
	}
	r.issues = append(r.issues, issue.Clone())
	return nil
}

func (r *memoryIssueRepository) Update(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.issues {
		if existing.ID == issue.ID {
			r.issues[i] = issue.Clone()
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryIssueRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.issues {
		if existing.ID == id {
			r.issues = append(r.issues[:i], r.issues[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryIssueRepository) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, issue := range r.issues {
		if issue.ID == id {
			return issue.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryIssueRepository) List(_ context.Context) ([]domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Issue, 0, len(r.issues))
	for _, issue := range r.issues {
		result = append(result, *issue.Clone())
	}
	return result, nil
}
