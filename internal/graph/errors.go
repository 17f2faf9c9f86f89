package graph

import (
	"errors"
	"log"

	"github.com/hmans/bookgraph/internal/library"
)

// Error codes reported in the "code" extension of GraphQL errors.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeDuplicateName = "DUPLICATE_NAME"
	CodeBadUserInput  = "BAD_USER_INPUT"
	CodeInternal      = "INTERNAL"
)

// Error is the single error shape every resolver reports.
// graphql-go copies Extensions into the response's errors array.
type Error struct {
	Code    string
	Message string
	Fields  []library.FieldError
	err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

// Extensions implements graphql-go's extension hook.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if len(e.Fields) > 0 {
		fields := make([]map[string]interface{}, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = map[string]interface{}{
				"field":   f.Field,
				"rule":    f.Rule,
				"message": f.Message,
			}
		}
		ext["fields"] = fields
	}
	return ext
}

// toError maps a store or validation error onto an *Error.
// Unexpected errors are logged with the operation and hidden from clients.
func toError(op string, err error) error {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}

	var verr *library.ValidationError
	switch {
	case errors.As(err, &verr):
		return &Error{Code: CodeBadUserInput, Message: verr.Error(), Fields: verr.Fields, err: err}
	case errors.Is(err, library.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error(), err: err}
	case errors.Is(err, library.ErrDuplicateName):
		return &Error{Code: CodeDuplicateName, Message: err.Error(), err: err}
	case errors.Is(err, library.ErrAuthorNotFound):
		return &Error{
			Code:    CodeBadUserInput,
			Message: err.Error(),
			Fields:  []library.FieldError{{Field: "authorId", Rule: "exists", Message: err.Error()}},
			err:     err,
		}
	}

	log.Printf("graph: %s: %v", op, err)
	return &Error{Code: CodeInternal, Message: "internal error", err: err}
}

// notFound reports a missing entity by kind and ID.
func notFound(kind, id string) error {
	return &Error{Code: CodeNotFound, Message: kind + " " + id + " not found", err: library.ErrNotFound}
}
