// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every ValidationError matches it with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")
)

// ValidationError describes a problem with a single named field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. err may be nil.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap exposes the specific cause, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldErrors flattens err into a field -> message map. It walks wrapped and
// joined errors, so the result of errors.Join over several ValidationErrors
// yields one entry per field. The first message for a field wins.
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	collectFieldErrors(err, fields)
	return fields
}

func collectFieldErrors(err error, fields map[string]string) {
	if err == nil {
		return
	}
	if ve, ok := err.(*ValidationError); ok {
		if ve.Field != "" {
			if _, seen := fields[ve.Field]; !seen {
				fields[ve.Field] = ve.Message
			}
		}
		return
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			collectFieldErrors(inner, fields)
		}
	case interface{ Unwrap() error }:
		collectFieldErrors(u.Unwrap(), fields)
	}
}
