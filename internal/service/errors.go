package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when the caller is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when email or password do not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is returned when registering an email that already exists
	ErrDuplicateEmail = errors.New("email already registered")
)

// Entity not-found errors. Each wraps ErrNotFound.
var (
	ErrClientNotFound     = notFound("client")
	ErrCrewNotFound       = notFound("crew member")
	ErrVehicleNotFound    = notFound("vehicle")
	ErrInstrumentNotFound = notFound("instrument")
	ErrSiteNotFound       = notFound("site")
	ErrBillNotFound       = notFound("bill")
	ErrExpenseNotFound    = notFound("expense")
	ErrEnquiryNotFound    = notFound("enquiry")
)

// Uniqueness and referential conflicts. Each wraps ErrConflict.
var (
	ErrDuplicateUsername     = conflictOn("username", "Username already exists")
	ErrDuplicateRegistration = conflictOn("registrationNumber", "Registration number already exists")
	ErrDuplicateSerialNumber = conflictOn("serialNumber", "Serial number already exists")
	ErrDuplicateBillNumber   = conflictOn("billNumber", "Bill number already exists")

	// ErrClientHasDependents blocks deleting a client with bills or active sites
	ErrClientHasDependents = conflict("Cannot delete client with existing bills or active sites")
)

type entityError struct {
	msg    string
	field  string
	target error
}

func (e *entityError) Error() string { return e.msg }
func (e *entityError) Unwrap() error { return e.target }

func notFound(entity string) error {
	return &entityError{msg: strings.ToUpper(entity[:1]) + entity[1:] + " not found", target: ErrNotFound}
}

func conflict(msg string) error {
	return &entityError{msg: msg, target: ErrConflict}
}

func conflictOn(field, msg string) error {
	return &entityError{msg: msg, field: field, target: ErrConflict}
}

// ConflictField names the request field a uniqueness conflict is about,
// or "" when the conflict is not tied to one field
func ConflictField(err error) string {
	var ee *entityError
	if errors.As(err, &ee) {
		return ee.field
	}
	return ""
}

// ValidationError reports domain-level validation failures per field
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

// newValidationError builds a ValidationError for a single field
func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Message: "Validation failed", Fields: map[string]string{field: msg}}
}

// fieldErrors accumulates per-field problems before returning one error
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Message: "Validation failed", Fields: f}
}

// notFoundOr maps gorm.ErrRecordNotFound to sentinel and wraps anything else
func notFoundOr(err, sentinel error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
