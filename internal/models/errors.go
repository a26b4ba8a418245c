package models

import "errors"

var (
	// ErrNotFound is returned when a local record does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a relationship edge would be invalid or duplicated
	ErrConflict = errors.New("conflict")
	// ErrValidation is returned for malformed input
	ErrValidation = errors.New("validation failed")
)
