package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/platinummonkey/todo/pkg/apperrors"
)

// Validator wraps a configured go-playground validator. It is safe for
// concurrent use and should be shared.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their JSON names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s against its `validate` tags
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.Wrap(apperrors.CodeUnprocessable, describe(fieldErrs[0]), err)
	}
	return apperrors.Wrap(apperrors.CodeUnprocessable, "Invalid request body", err)
}

// Email checks the address format. Pass a normalized address.
func (v *Validator) Email(email string) error {
	if err := v.validate.Var(email, "required,email,max=255"); err != nil {
		return apperrors.Wrap(apperrors.CodeUnprocessable, "Invalid email format", err)
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "email":
		return "Invalid email format"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
