// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Admission engine errors
	ErrNoMarksFound       = errors.New("no marks found")
	ErrMissingCriteria    = errors.New("missing criteria: GPA or total marks required")
	ErrInvalidProgramData = errors.New("invalid program data")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "catalog", "admission"
	Op      string // Operation that failed, e.g., "Create", "Evaluate"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "student with this email already exists")
	ErrMarkNotFound         = NewDomainError("student", "FindMark", ErrNotFound, "mark not found")
	ErrDuplicateSubjectMark = NewDomainError("student", "AddMark", ErrAlreadyExists, "mark for this subject already recorded")
	ErrInvalidGradePoint    = NewDomainError("student", "Validate", ErrValueOutOfRange, "grade point must be between 0.0 and 4.0")
	ErrInvalidTotalMarks    = NewDomainError("student", "Validate", ErrValueOutOfRange, "total marks must be between 0 and 500")
	ErrInvalidCredentials   = NewDomainError("student", "Login", ErrUnauthorized, "invalid credentials")
)

// Catalog domain errors
var (
	ErrCollegeNotFound   = NewDomainError("catalog", "FindCollege", ErrNotFound, "college not found")
	ErrCourseNotFound    = NewDomainError("catalog", "FindCourse", ErrNotFound, "course not found")
	ErrInvalidMinimumGPA = NewDomainError("catalog", "Validate", ErrInvalidProgramData, "minimum GPA must be greater than zero")
)

// Admission engine errors
var (
	ErrEmptyMarkSet      = NewDomainError("admission", "Aggregate", ErrNoMarksFound, "cannot aggregate an empty mark set")
	ErrNoEffectiveGPA    = NewDomainError("admission", "EffectiveGPA", ErrMissingCriteria, "neither GPA nor total marks supplied")
	ErrProgramZeroGPA    = NewDomainError("admission", "Evaluate", ErrInvalidProgramData, "offered program has non-positive minimum GPA")
	ErrMalformedCriteria = NewDomainError("admission", "ParseCriteria", ErrInvalidInput, "malformed search criteria")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error. Invalid catalog
// data and missing criteria count as validation failures: they are caller
// or data-integrity problems, never transient.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrMissingCriteria) ||
		errors.Is(err, ErrInvalidProgramData)
}

// IsNoMarks checks if the error signals aggregation over an empty mark set.
func IsNoMarks(err error) bool {
	return errors.Is(err, ErrNoMarksFound)
}

// IsUnauthorized checks if the error is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
