package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/go-playground/validator/v10"
)

// FieldViolation is one failed validation rule
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestValidator validates request structs by their validate tags and reports
// violations under their JSON field names
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator creates a validator using JSON tag names in messages
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validator: v}
}

// Validate returns a validation ServiceError listing every violation, or nil
func (r *RequestValidator) Validate(serviceName, operation string, value interface{}) error {
	err := r.validator.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return shared.WrapError(err, shared.ErrorCategoryValidation, "INVALID_REQUEST", serviceName, operation, false)
	}

	violations := make([]FieldViolation, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		violations = append(violations, FieldViolation{
			Field:   fieldError.Field(),
			Message: formatViolation(fieldError),
		})
	}

	return NewValidationError(serviceName, operation, violations...)
}

// NewValidationError builds the error returned for rejected input
func NewValidationError(serviceName, operation string, violations ...FieldViolation) *shared.ServiceError {
	message := "invalid request"
	if len(violations) > 0 {
		message = violations[0].Message
	}
	return shared.NewServiceError(shared.ErrorCategoryValidation, "INVALID_REQUEST", message,
		serviceName, operation, false, nil).WithDetails(violations)
}

func formatViolation(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
