package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator bundles plain struct validation with the business rule
// validator; services depend on this wrapper rather than the raw library.
type Validator struct {
	business *BusinessValidator
}

// New creates a Validator with all custom rules registered.
func New() *Validator {
	return &Validator{business: NewBusinessValidator()}
}

// Validate runs struct-tag validation and returns nil when valid.
func (v *Validator) Validate(s interface{}) error {
	if errs := v.business.Validate(s); errs.HasErrors() {
		return errs
	}
	return nil
}

// GetBusinessValidator exposes the business rule validator for request types
// that need cross-field checks.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// ValidationError describes a single failed rule on a single field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field errors; nil/empty means valid.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors reports whether any validation failed.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ToValidationErrors converts go-playground validator errors into our
// field-error shape so handlers can serialize them uniformly.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{
			Field:   "request",
			Message: err.Error(),
			Rule:    "invalid",
		}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageForTag(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "exam_duration":
		return "must be between 1 and 600 minutes"
	case "question_type":
		return "must be multiple_choice or written"
	case "exam_status":
		return "must be upcoming, active or completed"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
