package config

import (
	"fmt"
	"strings"

	"modject/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks every field and returns all problems found. The result is
// nil when the configuration is usable.
func (c Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs.Add("logging.level", "must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if err := ValidateOneOf("logging.format", c.Logging.Format, []string{"text", "json"}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if err := ValidateOneOf("tracing.exporter", c.Tracing.Exporter, []string{"none", "stdout"}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs.Add("tracing.sample_rate", "must be between 0 and 1", c.Tracing.SampleRate)
	}

	if !errs.HasErrors() {
		return nil
	}
	return errs
}
