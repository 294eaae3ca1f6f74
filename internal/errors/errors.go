package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the catalog application

// ErrResourceNotFound is returned when a resource id doesn't exist in the database
var ErrResourceNotFound = errors.New("resource not found")

// ErrInvalidResourceType is returned when a submitted type is not one of
// the known resource types
var ErrInvalidResourceType = errors.New("invalid resource type")

// ErrDatabaseConnection is returned when database connection fails
var ErrDatabaseConnection = errors.New("database connection failed")

// ErrMissingRequiredField is returned when a required form field is empty
type ErrMissingRequiredField struct {
	Field string
}

func (e ErrMissingRequiredField) Error() string {
	return fmt.Sprintf("required field %q is missing or empty", e.Field)
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}
