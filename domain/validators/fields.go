// Package validators holds the field rules shared by every entity schema.
// Each rule takes the raw decoded value and returns a typed, sanitized value
// or a validation error naming the field.
package validators

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"vector-pai/pkg/errors"
	"vector-pai/pkg/utils"
)

// Body is a request body decoded as a JSON object.
// Numbers are kept as json.Number so integer checks stay exact.
type Body map[string]interface{}

// Has reports whether the field was sent, even as null
func (b Body) Has(field string) bool {
	_, ok := b[field]
	return ok
}

// HasAny reports whether at least one of fields was sent
func (b Body) HasAny(fields ...string) bool {
	for _, f := range fields {
		if b.Has(f) {
			return true
		}
	}
	return false
}

// ParseBody decodes raw into a JSON object
func ParseBody(raw string) (Body, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.NewValidationError("request body is required")
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, errors.NewValidationError("request body must be valid JSON").WithCause(err)
	}
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return nil, errors.NewValidationError("request body must contain a single JSON object")
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, errors.NewValidationError("request body must be a JSON object")
	}
	return Body(obj), nil
}

// PositiveID coerces raw to an integer greater than zero.
// Accepts JSON numbers and numeric strings; fractional values are rejected.
func PositiveID(field string, raw interface{}) (int64, error) {
	if raw == nil {
		return 0, errors.NewFieldError(field, "is required")
	}

	var (
		n  int64
		ok bool
	)
	switch v := raw.(type) {
	case json.Number:
		n, ok = parseInteger(v.String())
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.NewFieldError(field, "is required")
		}
		n, ok = parseInteger(trimmed)
	case int:
		n, ok = int64(v), true
	case int64:
		n, ok = v, true
	case float64:
		n, ok = floatToInteger(v)
	}

	if !ok || n <= 0 {
		return 0, errors.NewFieldError(field, "must be a positive integer")
	}
	return n, nil
}

// OptionalPositiveID is PositiveID for a field that may be absent
func OptionalPositiveID(b Body, field string) (*int64, error) {
	if !b.Has(field) {
		return nil, nil
	}
	n, err := PositiveID(field, b[field])
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseInteger(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return floatToInteger(f)
}

func floatToInteger(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= 1<<63 || f < -(1<<63) {
		return 0, false
	}
	return int64(f), true
}

// TextRule describes a free text field
type TextRule struct {
	Max      int
	Required bool
}

// RequiredText is a required free text field of at most max characters
func RequiredText(max int) TextRule { return TextRule{Max: max, Required: true} }

// OptionalText is an optional free text field of at most max characters
func OptionalText(max int) TextRule { return TextRule{Max: max} }

// Text trims raw and enforces rule. Values containing any of <>'"& are
// rejected outright, never cleaned.
func Text(field string, raw interface{}, rule TextRule) (string, error) {
	if raw == nil {
		if rule.Required {
			return "", errors.NewFieldError(field, "is required")
		}
		return "", nil
	}

	s, ok := raw.(string)
	if !ok {
		return "", errors.NewFieldError(field, "must be a string")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		if rule.Required {
			return "", errors.NewFieldError(field, "must not be empty")
		}
		return "", nil
	}

	if err := utils.ValidateVar(field, s, fmt.Sprintf("max=%d,safetext", rule.Max)); err != nil {
		return "", fieldError(err)
	}
	return s, nil
}

// Flag normalizes a boolean-like value.
// Accepts true/false, numbers (non-zero is true) and "true"/"false"/"1"/"0".
func Flag(field string, raw interface{}) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			break
		}
		return f != 0, nil
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	}
	return false, errors.NewFieldError(field, "must be a boolean (true/false, 1/0)")
}

// Identifier validates a token made of letters, digits, '-' and '_'
func Identifier(field string, raw interface{}, max int) (string, error) {
	s, err := stringValue(field, raw, true)
	if err != nil {
		return "", err
	}
	if err := utils.ValidateVar(field, s, fmt.Sprintf("max=%d,identifier", max)); err != nil {
		return "", fieldError(err)
	}
	return s, nil
}

// Email validates and lowercases an email address
func Email(field string, raw interface{}) (string, error) {
	s, err := stringValue(field, raw, true)
	if err != nil {
		return "", err
	}
	s = strings.ToLower(s)
	if err := utils.ValidateVar(field, s, "email,max=255"); err != nil {
		return "", fieldError(err)
	}
	return s, nil
}

// OneOf validates that raw is one of options
func OneOf(field string, raw interface{}, options ...string) (string, error) {
	s, err := stringValue(field, raw, true)
	if err != nil {
		return "", err
	}
	if err := utils.ValidateVar(field, s, "oneof="+strings.Join(options, " ")); err != nil {
		return "", fieldError(err)
	}
	return s, nil
}

// Period validates a YYYY-MM period
func Period(field string, raw interface{}) (string, error) {
	s, err := stringValue(field, raw, true)
	if err != nil {
		return "", err
	}
	if err := utils.ValidateVar(field, s, "period"); err != nil {
		return "", fieldError(err)
	}
	return s, nil
}

func stringValue(field string, raw interface{}, required bool) (string, error) {
	if raw == nil {
		if required {
			return "", errors.NewFieldError(field, "is required")
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.NewFieldError(field, "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" && required {
		return "", errors.NewFieldError(field, "is required")
	}
	return s, nil
}

func fieldError(err error) error {
	var fe *utils.FieldError
	if stderrors.As(err, &fe) {
		return errors.NewFieldError(fe.Field, fe.Message)
	}
	return errors.NewValidationError(err.Error())
}

// Secret requires a non-empty string and returns it untouched
func Secret(field string, raw interface{}) (string, error) {
	s, ok := raw.(string)
	if raw == nil || (ok && s == "") {
		return "", errors.NewFieldError(field, "is required")
	}
	if !ok {
		return "", errors.NewFieldError(field, "must be a string")
	}
	return s, nil
}

// Sanitized converts raw to plain text, stripping any markup, then enforces max
func Sanitized(field string, raw interface{}, max int) (string, error) {
	s, err := stringValue(field, raw, true)
	if err != nil {
		return "", err
	}
	s = utils.PlainText(s)
	if s == "" {
		return "", errors.NewFieldError(field, "must not be empty")
	}
	if len([]rune(s)) > max {
		return "", errors.NewFieldError(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return s, nil
}
