package domain

import "time"

// IssueStatus enumerates lifecycle states.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusCancelled  IssueStatus = "cancelled"
)

// IssueStatuses lists statuses in lifecycle order.
var IssueStatuses = []IssueStatus{
	IssueStatusPending,
	IssueStatusInProgress,
	IssueStatusResolved,
	IssueStatusCancelled,
}

// IssueCategory classifies the kind of maintenance needed.
type IssueCategory string

const (
	CategoryElectricity IssueCategory = "electricity"
	CategoryWifi        IssueCategory = "wifi"
	CategoryWater       IssueCategory = "water"
	CategoryCleanliness IssueCategory = "cleanliness"
	CategoryFurniture   IssueCategory = "furniture"
	CategoryHeating     IssueCategory = "heating"
	CategorySecurity    IssueCategory = "security"
	CategoryOther       IssueCategory = "other"
)

// IssueCategories lists categories in reporting order.
var IssueCategories = []IssueCategory{
	CategoryElectricity,
	CategoryWifi,
	CategoryWater,
	CategoryCleanliness,
	CategoryFurniture,
	CategoryHeating,
	CategorySecurity,
	CategoryOther,
}

// IssuePriority enumerates urgency.
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

// IssuePriorities lists priorities from least to most urgent.
var IssuePriorities = []IssuePriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Issue is a reported maintenance problem.
type Issue struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Location    string        `json:"location" yaml:"location"`
	Category    IssueCategory `json:"category" yaml:"category"`
	Priority    IssuePriority `json:"priority" yaml:"priority"`
	Status      IssueStatus   `json:"status" yaml:"status"`
	Department  Department    `json:"department" yaml:"department"`
	ReportedBy  UserRef       `json:"reportedBy" yaml:"reportedBy"`
	AssignedTo  *UserRef      `json:"assignedTo" yaml:"assignedTo"`
	Image       *string       `json:"image,omitempty" yaml:"image"`
	Comments    []Comment     `json:"comments,omitempty" yaml:"comments"`
	CreatedAt   time.Time     `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" yaml:"-"`
}

// Comment is an append-only note on an issue.
type Comment struct {
	Author    UserRef   `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy that shares no mutable state with i.
func (i *Issue) Clone() *Issue {
	if i == nil {
		return nil
	}
	out := *i
	if i.AssignedTo != nil {
		ref := *i.AssignedTo
		out.AssignedTo = &ref
	}
	if i.Image != nil {
		img := *i.Image
		out.Image = &img
	}
	if i.Comments != nil {
		out.Comments = append([]Comment(nil), i.Comments...)
	}
	return &out
}
