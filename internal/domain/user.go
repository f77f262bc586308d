package domain

import "time"

// Role separates reporters from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists roles in reporting order.
var Roles = []Role{RoleUser, RoleAdmin}

// AdminType scopes an administrator.
type AdminType string

const (
	AdminTypeSuper      AdminType = "super"
	AdminTypeDepartment AdminType = "department"
)

// User is an account that reports or administers issues.
type User struct {
	ID           string     `json:"id" yaml:"id"`
	FirstName    string     `json:"firstName" yaml:"firstName"`
	LastName     string     `json:"lastName" yaml:"lastName"`
	Email        string     `json:"email" yaml:"email"`
	Department   Department `json:"department" yaml:"department"`
	Role         Role       `json:"role" yaml:"role"`
	AdminType    AdminType  `json:"adminType,omitempty" yaml:"adminType"`
	StudentID    *string    `json:"studentId,omitempty" yaml:"studentId"`
	IsActive     bool       `json:"isActive" yaml:"isActive"`
	PasswordHash string     `json:"-" yaml:"-"`
	CreatedAt    time.Time  `json:"createdAt" yaml:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsSuperAdmin reports whether the user may see every department.
func (u *User) IsSuperAdmin() bool {
	return u.IsAdmin() && u.AdminType == AdminTypeSuper
}

// IsDepartmentAdmin reports whether the user is scoped to one department.
func (u *User) IsDepartmentAdmin() bool {
	return u.IsAdmin() && u.AdminType == AdminTypeDepartment
}

// Ref returns the minimal reference embedded in issues.
func (u *User) Ref() UserRef {
	return UserRef{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// UserRef is a denormalized pointer to a user.
type UserRef struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"firstName,omitempty" yaml:"firstName"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName"`
	Email     string `json:"email,omitempty" yaml:"email"`
}

// Clone returns a copy that shares no mutable state with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.StudentID != nil {
		sid := *u.StudentID
		out.StudentID = &sid
	}
	return &out
}
