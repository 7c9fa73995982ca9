package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when a bulk import receives no items.
	ErrNoData = &ValidationError{Message: "No data provided"}

	ErrInspectionNotFound = errors.New("inspection not found")
)

// ValidationError reports malformed client input. Handlers map it to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError wraps a database failure. Err is logged but never sent to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
