package models

import "fmt"

// ConfigurationError indicates structurally invalid configuration: an unbound
// column mapping role, a bad threshold ordering, or similar. It is fatal and
// surfaced at setup time, never retried.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsTransient returns false as configuration errors are permanent.
func (e *ConfigurationError) IsTransient() bool {
	return false
}

// ValidationError represents malformed source data.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent.
func (e *ValidationError) IsTransient() bool {
	return false
}
