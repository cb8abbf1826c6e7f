// Package validate wraps go-playground/validator with json-tag field names
// and the password composition rules used by registration and reset flows.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a request field (json name) to a human-readable problem.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator validates request DTOs.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom password rules registered.
// Registration failures are programmer errors and panic at startup.
func New() *Validator {
	v := validator.New()

	// Report field names from json tags so clients see the wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validate: register %q: %v", tag, err))
		}
	}
	mustRegister("passlower", hasClass(func(r rune) bool { return r >= 'a' && r <= 'z' }))
	mustRegister("passupper", hasClass(func(r rune) bool { return r >= 'A' && r <= 'Z' }))
	mustRegister("passdigit", hasClass(func(r rune) bool { return r >= '0' && r <= '9' }))
	mustRegister("passspecial", hasClass(func(r rune) bool {
		return strings.ContainsRune("!@#$%&*?_-", r)
	}))

	return &Validator{validate: v}
}

// hasClass builds a rule that passes when at least one rune matches.
// Empty values pass; "required" owns the presence check.
func hasClass(match func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		for _, r := range value {
			if match(r) {
				return true
			}
		}
		return false
	}
}

// Struct validates a DTO. A failure is returned as Errors with one message
// per offending field; the first failing rule for a field wins.
func (v *Validator) Struct(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(Errors, len(fieldErrors))
	for _, fe := range fieldErrors {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long", fe.Param())
	case "passlower":
		return "password must include at least one lowercase character"
	case "passupper":
		return "password must include at least one uppercase letter"
	case "passdigit":
		return "password must include at least one digit"
	case "passspecial":
		return "password must include at least one special character"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' rule)", fe.Tag())
	}
}
