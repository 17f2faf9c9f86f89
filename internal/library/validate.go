package library

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// BookInput carries the writable fields of a book.
type BookInput struct {
	Name     string `validate:"notblank"`
	Genre    string `validate:"required,genre"`
	AuthorID string `validate:"omitempty,objectid"`
}

// AuthorInput carries the writable fields of an author.
type AuthorInput struct {
	Name string `validate:"notblank"`
	Age  *int   `validate:"omitempty,gte=0"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
			return IsValidGenre(fl.Field().String())
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidID(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// Validate checks a BookInput or AuthorInput and returns a *ValidationError
// describing every rejected field.
func Validate(input any) error {
	err := validatorInstance().Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		name := toFieldName(fe.Field())
		fields = append(fields, FieldError{
			Field:   name,
			Rule:    fe.Tag(),
			Message: buildMessage(name, fe),
		})
	}
	return &ValidationError{Fields: fields}
}

// ValidateID rejects ids that are not structurally valid document IDs.
func ValidateID(field, id string) error {
	if !IsValidID(id) {
		err := invalidField(field, "objectid", field+" is not a valid id")
		err.cause = ErrInvalidID
		return err
	}
	return nil
}

func toFieldName(field string) string {
	switch field {
	case "":
		return field
	case "AuthorID":
		return "authorId"
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func buildMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "genre":
		return field + " must be one of " + GenreList()
	case "objectid":
		return field + " is not a valid id"
	case "gte":
		return field + " must be at least " + fe.Param()
	}
	return field + " is invalid (" + fe.Tag() + ")"
}
