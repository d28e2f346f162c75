// Package usecase implements the business logic for the trades feature.
package usecase

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrTradeNotFound is returned when no trade exists with the requested ID.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrInvalidPage is returned when a listing page lies past the last result.
	ErrInvalidPage = errors.New("invalid page")
)

// ValidationError reports rejected input, keyed by the offending field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records the first message reported for field.
func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// errOrNil returns e when any field was rejected.
func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
