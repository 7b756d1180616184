// Package validate wraps go-playground/validator with the custom tags used by
// settings files and code generation manifests.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	identPattern      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	goTypePattern     = regexp.MustCompile(`^[\[\]*A-Za-z0-9_.]+$`)
	contextKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_./-]+$`)
)

func instance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("go_ident", func(fl validator.FieldLevel) bool {
			return identPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("go_type", func(fl validator.FieldLevel) bool {
			return goTypePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("context_key", func(fl validator.FieldLevel) bool {
			return contextKeyPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidationError captures a settings or manifest validation issue.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Struct validates s against its `validate` tags and reports the first
// violation as a *ValidationError.
func Struct(s any) error {
	if err := instance().Struct(s); err != nil {
		return convert(err)
	}
	return nil
}

func convert(err error) error {
	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return NewValidationError(field, msg, err)
	}

	return NewValidationError("", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	// Drop the root struct name
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, len(parts))
	for i, part := range parts {
		lowered[i] = strings.ToLower(part)
	}
	return strings.Join(lowered, ".")
}
