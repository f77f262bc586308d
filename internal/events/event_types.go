package events

import (
	"time"

	"github.com/spec-kit/facility-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventIssueAssigned      EventType = "issue_assigned"
	EventIssueCommentAdded  EventType = "issue_comment_added"
	EventIssueDeleted       EventType = "issue_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Department domain.Department    `json:"department"`
	Category   domain.IssueCategory `json:"category"`
	Priority   domain.IssuePriority `json:"priority"`
	Title      string               `json:"title"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
}

// IssueAssignedPayload payload.
type IssueAssignedPayload struct {
	AssigneeID    *string `json:"assignee_id,omitempty"`
	AssigneeEmail string  `json:"assignee_email,omitempty"`
	Automatic     bool    `json:"automatic"`
}

// IssueCommentAddedPayload payload.
type IssueCommentAddedPayload struct {
	AuthorID       string `json:"author_id"`
	ContentPreview string `json:"content_preview"`
}
