package database

import (
	"errors"
	"fmt"

	"line-item-service/internal/models"
)

// ErrNotFound is returned when no line item exists for the given id.
var ErrNotFound = errors.New("line item not found")

// ErrInvalidPage is returned when the page parameter is below 1.
var ErrInvalidPage = errors.New("invalid page number")

// ErrInvalidLimit is returned when the limit parameter is outside [1, 100].
var ErrInvalidLimit = errors.New("invalid limit number")

// ConflictError reports a uniqueness violation during insert.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate value for %s: %s", e.Field, e.Value)
}

// DocumentError reports required-field or enum violations detected while
// persisting a single document.
type DocumentError struct {
	Errors []models.FieldError
}

func (e *DocumentError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s", e.Errors[0].Message)
	}
	return fmt.Sprintf("validation failed: %d invalid fields", len(e.Errors))
}
