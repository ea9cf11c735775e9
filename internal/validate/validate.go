// Package validate wires go-playground/validator into echo and renders its
// failures as per-field messages for the dashboard forms.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error maps a form field name to a human readable message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Fields extracts per-field messages from err, or nil when err is not a
// validation failure.
func Fields(err error) map[string]string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the dashboard rules registered.  Field
// names in messages come from the `form` tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	registerRules(v)
	return &Validator{validate: v}
}

// Validate checks i and returns *Error for rule violations.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return &Error{Fields: out}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "password":
		return "Password must be at least 8 characters and contain an uppercase letter, a digit and a special character."
	case "eqfield":
		return "Passwords do not match."
	case "date":
		return "Use the YYYY-MM-DD format."
	case "notbefore":
		return "End date cannot be before the start date."
	case "campaign_status":
		return "Choose a valid status."
	case "role":
		return "Choose a valid role."
	case "money":
		return "Enter a non-negative amount."
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "numeric", "number":
		return "Must be a number."
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
