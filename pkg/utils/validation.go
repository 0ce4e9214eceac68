package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UnsafeTextChars are rejected in free text fields
const UnsafeTextChars = `<>'"&`

// ActivationAlphabet excludes characters that read alike (0/O, 1/I/L)
const ActivationAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	periodPattern     = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	actCodePattern    = regexp.MustCompile(`^[` + ActivationAlphabet + `]{9}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("safetext", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), UnsafeTextChars)
	})
	v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		return periodPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("actcode", func(fl validator.FieldLevel) bool {
		return actCodePattern.MatchString(fl.Field().String())
	})
	return v
}

// FieldError is a single failed rule, naming the offending field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidateStruct validates a struct based on its validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err, "")
	}
	return nil
}

// ValidateVar validates a single value against a tag, reporting it under field
func ValidateVar(field string, value interface{}, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return formatValidationError(err, field)
	}
	return nil
}

// formatValidationError reports the first failed rule
func formatValidationError(err error, field string) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		e := validationErrors[0]
		name := field
		if name == "" {
			name = strings.ToLower(e.Field())
		}
		return &FieldError{Field: name, Message: formatFieldError(e)}
	}
	return err
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "safetext":
		return "contains characters that are not allowed"
	case "identifier":
		return "may only contain letters, digits, '-' and '_'"
	case "period":
		return "must have the form YYYY-MM"
	case "actcode":
		return "must be 9 characters from " + ActivationAlphabet
	case "dive":
		return "contains invalid values"
	default:
		return "is invalid"
	}
}
