// Package errors provides custom error types for the scholarmap system.
// These errors enable programmatic error checking and keep the batch
// pipeline's failure taxonomy explicit: transient source failures, parse
// failures, and storage failures are distinguishable without string matching.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the scholarmap system.
var (
	// ErrNotFound indicates that a requested record was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates a verification source is temporarily unavailable.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a record is not found.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// SourceError represents a failure from a verification source. Transient
// network errors, timeouts, and non-200 responses all land here; the
// reconciler treats them as a zero-confidence finding, never as fatal.
type SourceError struct {
	Source     string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source %s error (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("source %s error: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NewSourceError creates a new SourceError.
func NewSourceError(source string, statusCode int, message string, err error) *SourceError {
	return &SourceError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// ParseError represents an error when parsing a source or interchange document.
type ParseError struct {
	Format  string // "json", "yaml", "html"
	Subject string // file path or source name
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("parse error in %s document %s: %s", e.Format, e.Subject, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Subject: subject, Message: err.Error(), Err: err}
}

// StorageError represents a failure in the record store. Callers must not
// assume partial success: the failed operation rolled back in full.
type StorageError struct {
	Operation string // "upsert", "update", "query", "migrate"
	Resource  string // "faculty", "publication", "provenance"
	ID        string
	Err       error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("storage error during %s of %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("storage error during %s of %s: %v", e.Operation, e.Resource, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage wraps an error as a StorageError.
func WrapStorage(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// IOError represents an error during file I/O operations.
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// TimeoutError represents an operation timeout.
type TimeoutError struct {
	Operation string
	Duration  string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s", e.Operation, e.Duration)
	}
	return fmt.Sprintf("operation %s timed out", e.Operation)
}

// Is implements errors.Is support.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Helper functions for error checking.

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSourceUnavailable checks if an error indicates source unavailability.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsTransient reports whether an error should be treated as a transient
// source failure: the source's finding is degraded to zero confidence and
// the batch continues.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var srcErr *SourceError
	var parseErr *ParseError
	return errors.As(err, &srcErr) ||
		errors.As(err, &parseErr) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrSourceUnavailable)
}
