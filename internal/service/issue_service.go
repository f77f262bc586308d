package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util"
)

// IssueService owns issue visibility, assignment and mutation rules.
//
// Listing is scoped by role, but the admin-only mutations (status, assignment)
// and the statistics are not scoped by department. Single-issue reads, edits,
// deletes and comments carry no ownership check at all.
type IssueService struct {
	issues     repository.IssueRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	now        Clock
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo  repository.IssueRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Clock      Clock
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:     deps.IssueRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		now:        clockOrDefault(deps.Clock),
	}
}

// CreateIssueInput describes a new report.
type CreateIssueInput struct {
	Title       string
	Description string
	Location    string
	Category    domain.IssueCategory
	Priority    domain.IssuePriority
	Image       *ImageInput
}

// IssuePatch holds the editable fields; nil leaves a field unchanged.
type IssuePatch struct {
	Title       *string
	Description *string
	Location    *string
	Category    *domain.IssueCategory
	Priority    *domain.IssuePriority
	Status      *domain.IssueStatus
	Image       *string
}

// IssueList is the result of a scoped listing.
type IssueList struct {
	Issues       []domain.Issue `json:"issues"`
	StatusCounts StatusCounts   `json:"stats"`
}

// ListIssues returns the issues visible to the caller, narrowed by filter,
// with status counts over that same set.
func (s *IssueService) ListIssues(ctx context.Context, callerID string, filter IssueFilter) (*IssueList, error) {
	caller, err := resolveCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}
	all, err := s.issues.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	visible := FilterIssues(caller, all, filter)
	return &IssueList{Issues: visible, StatusCounts: CountByStatus(visible)}, nil
}

// GetIssue fetches one issue by id.
func (s *IssueService) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "issue", id)
	}
	return issue, nil
}

// CreateIssue files a report on behalf of the caller and auto-assigns it to the
// department admin of the caller's department, if there is one.
func (s *IssueService) CreateIssue(ctx context.Context, callerID string, input CreateIssueInput) (*domain.Issue, error) {
	caller, err := resolveCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	issue := &domain.Issue{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.IssueStatusPending,
		Department:  caller.Department,
		ReportedBy:  caller.Ref(),
		Image:       input.Image.resolve(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if issue.Priority == "" {
		issue.Priority = domain.PriorityMedium
	}
	if admin := SelectDepartmentAdmin(users, caller.Department); admin != nil {
		ref := admin.Ref()
		issue.AssignedTo = &ref
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		ActorID: caller.ID,
		Payload: events.IssueCreatedPayload{
			Department: issue.Department,
			Category:   issue.Category,
			Priority:   issue.Priority,
			Title:      issue.Title,
		},
	})
	if issue.AssignedTo != nil {
		s.publishAssigned(ctx, caller.ID, issue, true)
	}
	return issue, nil
}

// UpdateIssue shallow-merges patch onto the stored issue.
func (s *IssueService) UpdateIssue(ctx context.Context, id string, patch IssuePatch) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "issue", id)
	}
	if patch.Title != nil {
		issue.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		issue.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Location != nil {
		issue.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Category != nil {
		issue.Category = *patch.Category
	}
	if patch.Priority != nil {
		issue.Priority = *patch.Priority
	}
	if patch.Status != nil {
		issue.Status = *patch.Status
	}
	if patch.Image != nil {
		img := *patch.Image
		issue.Image = &img
	}
	issue.UpdatedAt = s.now()
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, notFoundOr(err, "issue", id)
	}
	return issue, nil
}

// DeleteIssue permanently removes an issue along with its comments and image.
func (s *IssueService) DeleteIssue(ctx context.Context, id string) error {
	if err := s.issues.Delete(ctx, id); err != nil {
		return notFoundOr(err, "issue", id)
	}
	publish(ctx, s.dispatcher, s.now, events.Event{Type: events.EventIssueDeleted, IssueID: id})
	return nil
}

// UpdateStatus sets the status of any issue. The value is stored as given;
// neither the enumeration nor the transition is checked.
func (s *IssueService) UpdateStatus(ctx context.Context, callerID, id string, status domain.IssueStatus) (*domain.Issue, error) {
	caller, err := requireAdminCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "issue", id)
	}
	oldStatus := issue.Status
	issue.Status = status
	issue.UpdatedAt = s.now()
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, notFoundOr(err, "issue", id)
	}
	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:    events.EventIssueStatusChanged,
		IssueID: issue.ID,
		ActorID: caller.ID,
		Payload: events.IssueStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	return issue, nil
}

// AssignIssue overwrites the assignee. A known user id is expanded to a full
// reference; an unknown one is kept as a bare id; an empty id clears the assignee.
func (s *IssueService) AssignIssue(ctx context.Context, callerID, id, assigneeID string) (*domain.Issue, error) {
	caller, err := requireAdminCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "issue", id)
	}

	assigneeID = strings.TrimSpace(assigneeID)
	switch assignee, lookupErr := s.lookupUser(ctx, assigneeID); {
	case assigneeID == "":
		issue.AssignedTo = nil
	case lookupErr != nil:
		return nil, lookupErr
	case assignee != nil:
		ref := assignee.Ref()
		issue.AssignedTo = &ref
	default:
		issue.AssignedTo = &domain.UserRef{ID: assigneeID}
	}
	issue.UpdatedAt = s.now()

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, notFoundOr(err, "issue", id)
	}
	s.publishAssigned(ctx, caller.ID, issue, false)
	return issue, nil
}

// AddComment appends a comment authored by the caller.
func (s *IssueService) AddComment(ctx context.Context, callerID, id, content string) (*domain.Issue, error) {
	caller, err := resolveCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "issue", id)
	}
	now := s.now()
	issue.Comments = append(issue.Comments, domain.Comment{
		Author:    caller.Ref(),
		Content:   content,
		CreatedAt: now,
	})
	issue.UpdatedAt = now
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, notFoundOr(err, "issue", id)
	}
	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:    events.EventIssueCommentAdded,
		IssueID: issue.ID,
		ActorID: caller.ID,
		Payload: events.IssueCommentAddedPayload{
			AuthorID:       caller.ID,
			ContentPreview: stringPreview(content, 120),
		},
	})
	return issue, nil
}

// GetIssueStats aggregates every issue in the system, regardless of the
// caller's department.
func (s *IssueService) GetIssueStats(ctx context.Context, callerID string) (*IssueStats, error) {
	if _, err := requireAdminCaller(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	all, err := s.issues.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats := ComputeIssueStats(all)
	return &stats, nil
}

func (s *IssueService) lookupUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *IssueService) publishAssigned(ctx context.Context, actorID string, issue *domain.Issue, automatic bool) {
	payload := events.IssueAssignedPayload{Automatic: automatic}
	if issue.AssignedTo != nil {
		assigneeID := issue.AssignedTo.ID
		payload.AssigneeID = &assigneeID
		payload.AssigneeEmail = issue.AssignedTo.Email
	}
	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:    events.EventIssueAssigned,
		IssueID: issue.ID,
		ActorID: actorID,
		Payload: payload,
	})
}
