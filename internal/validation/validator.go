// Package validation checks books before they are written.
//
// Rules are declared as `validate` struct tags on entities.Book and evaluated by
// go-playground/validator with two custom tags:
//
//	isbn      digits and hyphens only, starting and ending with a digit, 13 digits
//	notblank  at least one non-whitespace character
//
// Validation is structural only and never touches the store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/library/internal/entities"
)

const isbnDigits = 13

var isbnPattern = regexp.MustCompile(`^[0-9](?:[0-9-]*[0-9])?$`)

// Failure is one field-level validation error.
type Failure struct {
	PropertyName string `json:"PropertyName"`
	ErrorMessage string `json:"ErrorMessage"`
}

func (f Failure) Error() string {
	return f.PropertyName + ": " + f.ErrorMessage
}

// Validator validates books. The zero value is not usable; use New.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom book tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report the JSON field name, which is also the property name clients see.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	mustRegister(v, "isbn", validateISBN)
	mustRegister(v, "notblank", validateNotBlank)

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ValidateBook returns the book's validation failures in field order, or nil.
func (v *Validator) ValidateBook(book *entities.Book) []Failure {
	err := v.validate.Struct(book)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []Failure{{PropertyName: "", ErrorMessage: err.Error()}}
	}

	failures := make([]Failure, 0, len(validationErrors))
	for _, fe := range validationErrors {
		failures = append(failures, Failure{
			PropertyName: fe.Field(),
			ErrorMessage: message(fe),
		})
	}
	return failures
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "isbn":
		return "Value was not a valid ISBN-13"
	case "notblank", "required":
		return fmt.Sprintf("'%s' must not be empty.", fe.Field())
	default:
		return fmt.Sprintf("'%s' is invalid.", fe.Field())
	}
}

// IsValidISBN reports whether s looks like an ISBN-13. The check digit is not verified.
func IsValidISBN(s string) bool {
	if !isbnPattern.MatchString(s) {
		return false
	}
	return strings.Count(s, "-") == len(s)-isbnDigits
}

func validateISBN(fl validator.FieldLevel) bool {
	return IsValidISBN(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
