package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrBackend    = errors.New("backend failure")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (document, version, category)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// BackendError wraps a transport or storage failure, preserving the opaque cause.
type BackendError struct {
	Op    string // Failed backend operation, e.g. "insert document"
	Cause error
}

// Error implements the error interface
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is() to match against ErrBackend
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}
