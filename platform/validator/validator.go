// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// intakeEmailRegex is the email shape accepted on lead intake: local@domain.tld
// with no whitespace. Deliberately loose compared to full RFC parsing.
var intakeEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance. Error messages reference the json
// field name rather than the Go struct field name.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// intake_email matches the simple local@domain.tld shape used by the
	// public lead form.
	_ = v.RegisterValidation("intake_email", func(fl validator.FieldLevel) bool {
		return intakeEmailRegex.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// StructPartial validates only the named struct fields. Fields are checked
// in struct declaration order regardless of the order given here.
func (val *Validator) StructPartial(s interface{}, fields ...string) error {
	return val.v.StructPartial(s, fields...)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// FirstFieldError returns the first field error from a validation error,
// or nil if err does not carry field errors. Validation is fail-fast at the
// message level: callers report only the first offending field.
func FirstFieldError(err error) validator.FieldError {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return nil
	}
	return fieldErrs[0]
}
