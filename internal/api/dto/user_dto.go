package dto

import (
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
)

// UpdateUserRequest payload for an admin editing an account.
type UpdateUserRequest struct {
	FirstName  *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Department *string `json:"department" validate:"omitempty,department"`
	Role       *string `json:"role" validate:"omitempty,role"`
	AdminType  *string `json:"adminType" validate:"omitempty,admin_type"`
	StudentID  *string `json:"studentId" validate:"omitempty,max=32"`
	IsActive   *bool   `json:"isActive"`
}

// ToPatch converts the payload for the user service.
func (r UpdateUserRequest) ToPatch() service.UserPatch {
	patch := service.UserPatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		StudentID: r.StudentID,
		IsActive:  r.IsActive,
	}
	if r.Department != nil {
		v := domain.Department(*r.Department)
		patch.Department = &v
	}
	if r.Role != nil {
		v := domain.Role(*r.Role)
		patch.Role = &v
	}
	if r.AdminType != nil {
		v := domain.AdminType(*r.AdminType)
		patch.AdminType = &v
	}
	return patch
}
