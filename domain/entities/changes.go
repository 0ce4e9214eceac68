package entities

import (
	"sort"

	"vector-pai/pkg/errors"
)

// Changes maps attribute names to their new values for a partial update
type Changes map[string]interface{}

// Set records a new value for attr
func (c Changes) Set(attr string, value interface{}) {
	c[attr] = value
}

// Has reports whether attr is part of the update
func (c Changes) Has(attr string) bool {
	_, ok := c[attr]
	return ok
}

// Attributes returns the changed attribute names in a stable order
func (c Changes) Attributes() []string {
	attrs := make([]string, 0, len(c))
	for k := range c {
		attrs = append(attrs, k)
	}
	sort.Strings(attrs)
	return attrs
}

// errNothingToUpdate is returned when an update names no updatable field
func errNothingToUpdate(fields ...string) error {
	return errors.NewValidationError("at least one field to update is required").
		WithDetail("updatable_fields", fields)
}

// errPathMismatch is returned when a body identifier disagrees with the path
func errPathMismatch(field string) error {
	return errors.NewFieldError(field, "must match the identifier in the path")
}
