package dto

import (
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
)

// CreateIssueRequest payload for reporting an issue. Multipart submissions bind
// the same fields from form values and carry the image as a file part.
type CreateIssueRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"required,max=5000"`
	Location    string `json:"location" form:"location" validate:"required,max=200"`
	Category    string `json:"category" form:"category" validate:"required,issue_category"`
	Priority    string `json:"priority" form:"priority" validate:"omitempty,issue_priority"`
	Image       string `json:"image" form:"-"`
}

// ToInput converts the payload for the issue service.
func (r CreateIssueRequest) ToInput(upload []byte) service.CreateIssueInput {
	input := service.CreateIssueInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Category:    domain.IssueCategory(r.Category),
		Priority:    domain.IssuePriority(r.Priority),
	}
	if len(upload) > 0 || r.Image != "" {
		input.Image = &service.ImageInput{Data: upload, URI: r.Image}
	}
	return input
}

// UpdateIssueRequest payload for editing an issue.
type UpdateIssueRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1,max=5000"`
	Location    *string `json:"location" validate:"omitempty,min=1,max=200"`
	Category    *string `json:"category" validate:"omitempty,issue_category"`
	Priority    *string `json:"priority" validate:"omitempty,issue_priority"`
	Status      *string `json:"status" validate:"omitempty,issue_status"`
	Image       *string `json:"image"`
}

// ToPatch converts the payload for the issue service.
func (r UpdateIssueRequest) ToPatch() service.IssuePatch {
	patch := service.IssuePatch{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Image:       r.Image,
	}
	if r.Category != nil {
		v := domain.IssueCategory(*r.Category)
		patch.Category = &v
	}
	if r.Priority != nil {
		v := domain.IssuePriority(*r.Priority)
		patch.Priority = &v
	}
	if r.Status != nil {
		v := domain.IssueStatus(*r.Status)
		patch.Status = &v
	}
	return patch
}

// UpdateStatusRequest payload for an admin status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,issue_status"`
}

// AssignIssueRequest payload for an admin assignment. An empty id clears the assignee.
type AssignIssueRequest struct {
	AssignedTo string `json:"assignedTo"`
}

// AddCommentRequest payload for a comment.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// IssueListQuery binds the listing filters. "all" or empty disables a filter.
type IssueListQuery struct {
	Status     string `query:"status"`
	Category   string `query:"category"`
	Priority   string `query:"priority"`
	Department string `query:"department"`
}

// ToFilter converts the query for the issue service.
func (q IssueListQuery) ToFilter() service.IssueFilter {
	return service.IssueFilter{
		Status:     domain.IssueStatus(q.Status),
		Category:   domain.IssueCategory(q.Category),
		Priority:   domain.IssuePriority(q.Priority),
		Department: domain.Department(q.Department),
	}
}
