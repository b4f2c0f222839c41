package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors recovered into HTTP statuses at the handler boundary.
var (
	// ErrResumeNotFound is returned when the referenced resume row does not exist.
	ErrResumeNotFound = errors.New("resume not found")

	// ErrIncompleteResume is returned by aggregate reads when a mandatory 1:1
	// child (personal info, summary or skills) has never been saved.
	ErrIncompleteResume = errors.New("resume is incomplete")

	// ErrArchiveNotFound is returned when a content id resolves to no data on
	// the archive network.
	ErrArchiveNotFound = errors.New("archived resume not found")
)

// Validation error type codes.
const (
	ErrRequired     = "required"
	ErrInvalidField = "invalid_field"
	ErrMaxLength    = "max_length"
	ErrMinLength    = "min_length"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message, errType string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Type: errType}
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// IsValidation reports whether err is a validation failure of either shape.
func IsValidation(err error) bool {
	var single *ValidationError
	var many ValidationErrors
	return errors.As(err, &single) || errors.As(err, &many)
}
