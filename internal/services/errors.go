package services

import (
	"errors"
	"fmt"

	"github.com/edutrack/exam-service/internal/validator"
)

// Service-level sentinel errors. Handlers map these onto HTTP status codes;
// everything else surfaces as an internal error.
var (
	ErrExamNotFound    = errors.New("exam not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrResultNotFound  = errors.New("result not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrPaperNotFound   = errors.New("paper not found")

	ErrQuestionNotFound = errors.New("question not found")

	ErrDuplicateEmail  = errors.New("email already in use")
	ErrDuplicateResult = errors.New("result already recorded for this student and exam")

	ErrVersionConflict = errors.New("paper was modified concurrently, re-read and retry")

	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationFailedError carries the field errors behind ErrValidationFailed
// so handlers can include them in the response body.
type ValidationFailedError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Errors.Error())
}

func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError wraps field errors as a service error.
func NewValidationError(errs validator.ValidationErrors) error {
	return &ValidationFailedError{Errors: errs}
}

// FieldErrors extracts validation field errors when err is a validation
// failure, nil otherwise.
func FieldErrors(err error) validator.ValidationErrors {
	var vfe *ValidationFailedError
	if errors.As(err, &vfe) {
		return vfe.Errors
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
