package library

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateName  = errors.New("a book with this name already exists")
	ErrAuthorNotFound = errors.New("referenced author does not exist")
	ErrInvalidID      = errors.New("invalid id")
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned when mutation input fails validation.
type ValidationError struct {
	Fields []FieldError
	cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel behind the failure, if any.
func (e *ValidationError) Unwrap() error {
	return e.cause
}

// invalidField builds a single-field ValidationError.
func invalidField(field, rule, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule, Message: message}}}
}
