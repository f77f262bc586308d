package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util"
)

// Validator checks request payloads against their struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator with the domain enumerations registered as tags.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerEnum(v, "department", domain.Departments)
	registerEnum(v, "issue_category", domain.IssueCategories)
	registerEnum(v, "issue_priority", domain.IssuePriorities)
	registerEnum(v, "issue_status", domain.IssueStatuses)
	registerEnum(v, "role", domain.Roles)
	registerEnum(v, "admin_type", []domain.AdminType{domain.AdminTypeSuper, domain.AdminTypeDepartment})

	return &Validator{validate: v}
}

func registerEnum[T ~string](v *validator.Validate, tag string, allowed []T) {
	_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		got := fl.Field().String()
		for _, a := range allowed {
			if string(a) == got {
				return true
			}
		}
		return false
	})
}

// Struct validates s and returns a VALIDATION_FAILED error with one detail per bad field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
	}
	return apperrors.NewValidationError("validation failed", details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "must be a valid " + strings.ReplaceAll(fe.Tag(), "_", " ")
	}
}
