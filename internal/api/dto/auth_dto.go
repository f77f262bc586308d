package dto

import (
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
)

// RegisterRequest payload for self-service signup.
type RegisterRequest struct {
	FirstName  string  `json:"firstName" validate:"required,max=100"`
	LastName   string  `json:"lastName" validate:"required,max=100"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6,max=72"`
	Department string  `json:"department" validate:"required,department"`
	StudentID  *string `json:"studentId" validate:"omitempty,max=32"`
}

// ToInput converts the payload for the auth service.
func (r RegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Password:   r.Password,
		Department: domain.Department(r.Department),
		StudentID:  r.StudentID,
	}
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest payload for editing one's own profile.
type UpdateProfileRequest struct {
	FirstName  *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Department *string `json:"department" validate:"omitempty,department"`
	StudentID  *string `json:"studentId" validate:"omitempty,max=32"`
}

// ToPatch converts the payload for the auth service.
func (r UpdateProfileRequest) ToPatch() service.ProfilePatch {
	patch := service.ProfilePatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		StudentID: r.StudentID,
	}
	if r.Department != nil {
		dept := domain.Department(*r.Department)
		patch.Department = &dept
	}
	return patch
}

// ChangePasswordRequest payload for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}
