package service

import (
	"strings"

	"github.com/spec-kit/facility-service/internal/domain"
)

const (
	recentLimit      = 5
	staffSearchLimit = 10
	filterAll        = "all"
)

// IssueFilter narrows an issue listing by exact value. Empty or "all" disables a field.
type IssueFilter struct {
	Status     domain.IssueStatus
	Category   domain.IssueCategory
	Priority   domain.IssuePriority
	Department domain.Department
}

// StatusCounts tallies issues per lifecycle state.
type StatusCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in-progress"`
	Resolved   int `json:"resolved"`
	Cancelled  int `json:"cancelled"`
}

// Total sums the four buckets.
func (c StatusCounts) Total() int {
	return c.Pending + c.InProgress + c.Resolved + c.Cancelled
}

// CanView reports whether the caller's listing may include the issue.
func CanView(caller *domain.User, issue *domain.Issue) bool {
	switch {
	case caller == nil:
		return false
	case caller.IsDepartmentAdmin():
		return issue.Department == caller.Department
	case caller.IsAdmin():
		// super admins and admins without a type
		return true
	default:
		return issue.ReportedBy.ID == caller.ID
	}
}

// FilterIssues applies the visibility rule and then the equality filters.
// The department filter is honored for super admins only.
func FilterIssues(caller *domain.User, issues []domain.Issue, filter IssueFilter) []domain.Issue {
	result := make([]domain.Issue, 0, len(issues))
	for i := range issues {
		issue := &issues[i]
		if !CanView(caller, issue) {
			continue
		}
		if !matches(string(filter.Status), string(issue.Status)) ||
			!matches(string(filter.Category), string(issue.Category)) ||
			!matches(string(filter.Priority), string(issue.Priority)) {
			continue
		}
		if caller.IsSuperAdmin() && !matches(string(filter.Department), string(issue.Department)) {
			continue
		}
		result = append(result, *issue)
	}
	return result
}

func matches(want, got string) bool {
	return want == "" || want == filterAll || want == got
}

// CountByStatus tallies the given issues.
func CountByStatus(issues []domain.Issue) StatusCounts {
	var counts StatusCounts
	for i := range issues {
		switch issues[i].Status {
		case domain.IssueStatusPending:
			counts.Pending++
		case domain.IssueStatusInProgress:
			counts.InProgress++
		case domain.IssueStatusResolved:
			counts.Resolved++
		case domain.IssueStatusCancelled:
			counts.Cancelled++
		}
	}
	return counts
}

// SelectDepartmentAdmin picks the active department admin for dept.
// When several qualify, the earliest created wins and ties fall back to the lowest id.
func SelectDepartmentAdmin(users []domain.User, dept domain.Department) *domain.User {
	var chosen *domain.User
	for i := range users {
		candidate := &users[i]
		if !candidate.IsDepartmentAdmin() || !candidate.IsActive || candidate.Department != dept {
			continue
		}
		if chosen == nil || precedes(candidate, chosen) {
			chosen = candidate
		}
	}
	if chosen == nil {
		return nil
	}
	return chosen.Clone()
}

func precedes(a, b *domain.User) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// IssueOverview is the headline block of the issue statistics.
type IssueOverview struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Cancelled  int `json:"cancelled"`
	Urgent     int `json:"urgent"`
}

// CategoryCount is one row of the category breakdown.
type CategoryCount struct {
	Category domain.IssueCategory `json:"id"`
	Count    int                  `json:"count"`
}

// IssueStats aggregates the whole issue collection.
type IssueStats struct {
	Overview     IssueOverview   `json:"overview"`
	Categories   []CategoryCount `json:"categories"`
	RecentIssues []domain.Issue  `json:"recentIssues"`
}

// ComputeIssueStats aggregates issues. RecentIssues are the first entries in
// insertion order, not the newest by timestamp.
func ComputeIssueStats(issues []domain.Issue) IssueStats {
	counts := CountByStatus(issues)
	stats := IssueStats{
		Overview: IssueOverview{
			Total:      len(issues),
			Pending:    counts.Pending,
			InProgress: counts.InProgress,
			Resolved:   counts.Resolved,
			Cancelled:  counts.Cancelled,
		},
	}

	byCategory := make(map[domain.IssueCategory]int, len(domain.IssueCategories))
	for i := range issues {
		byCategory[issues[i].Category]++
		if issues[i].Priority == domain.PriorityUrgent {
			stats.Overview.Urgent++
		}
	}
	stats.Categories = make([]CategoryCount, 0, len(domain.IssueCategories))
	for _, category := range domain.IssueCategories {
		stats.Categories = append(stats.Categories, CategoryCount{Category: category, Count: byCategory[category]})
	}

	stats.RecentIssues = append([]domain.Issue{}, issues[:min(recentLimit, len(issues))]...)
	return stats
}

// RoleCounts tallies users per role.
type RoleCounts struct {
	User  int `json:"user"`
	Admin int `json:"admin"`
}

// CountByRole tallies the given users.
func CountByRole(users []domain.User) RoleCounts {
	var counts RoleCounts
	for i := range users {
		switch users[i].Role {
		case domain.RoleUser:
			counts.User++
		case domain.RoleAdmin:
			counts.Admin++
		}
	}
	return counts
}

// UserOverview is the headline block of the user statistics.
type UserOverview struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// RoleCount is one row of the role breakdown.
type RoleCount struct {
	Role  domain.Role `json:"id"`
	Count int         `json:"count"`
}

// DepartmentCount is one row of the department breakdown.
type DepartmentCount struct {
	Department domain.Department `json:"id"`
	Count      int               `json:"count"`
}

// UserStats aggregates the whole user collection.
type UserStats struct {
	Overview    UserOverview      `json:"overview"`
	Roles       []RoleCount       `json:"roles"`
	Departments []DepartmentCount `json:"departments"`
	RecentUsers []domain.User     `json:"recentUsers"`
}

// ComputeUserStats aggregates users. RecentUsers follow insertion order.
func ComputeUserStats(users []domain.User) UserStats {
	stats := UserStats{Overview: UserOverview{Total: len(users)}}
	byDept := make(map[domain.Department]int, len(domain.Departments))
	for i := range users {
		if users[i].IsActive {
			stats.Overview.Active++
		} else {
			stats.Overview.Inactive++
		}
		byDept[users[i].Department]++
	}

	roles := CountByRole(users)
	stats.Roles = []RoleCount{
		{Role: domain.RoleUser, Count: roles.User},
		{Role: domain.RoleAdmin, Count: roles.Admin},
	}
	stats.Departments = make([]DepartmentCount, 0, len(domain.Departments))
	for _, dept := range domain.Departments {
		stats.Departments = append(stats.Departments, DepartmentCount{Department: dept, Count: byDept[dept]})
	}
	stats.RecentUsers = append([]domain.User{}, users[:min(recentLimit, len(users))]...)
	return stats
}

// MatchMaintenanceStaff returns active regular users whose name or email
// contains term, ignoring case. The result is capped at ten entries.
func MatchMaintenanceStaff(users []domain.User, term string) []domain.User {
	needle := strings.ToLower(term)
	result := make([]domain.User, 0, staffSearchLimit)
	for i := range users {
		u := &users[i]
		if u.Role != domain.RoleUser || !u.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(u.FirstName), needle) ||
			strings.Contains(strings.ToLower(u.LastName), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			result = append(result, *u)
			if len(result) == staffSearchLimit {
				break
			}
		}
	}
	return result
}

// FilterUsersByRole keeps users of the given role; empty or "all" keeps everyone.
func FilterUsersByRole(users []domain.User, role domain.Role) []domain.User {
	filtered := make([]domain.User, 0, len(users))
	for i := range users {
		if matches(string(role), string(users[i].Role)) {
			filtered = append(filtered, users[i])
		}
	}
	return filtered
}

