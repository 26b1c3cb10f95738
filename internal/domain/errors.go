// Package domain defines core types, interfaces, and errors for the
// grocery ownership graph.
package domain

import "fmt"

// NotFoundError indicates a resource was not found, or does not belong to
// the parent named in the request.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates the principal is authenticated but lacks
// rights for the operation. Reason is a stable machine-readable cause.
type AccessDeniedError struct {
	Message string
	Reason  string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input. No write has been performed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a uniqueness conflict in the store.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// SupplierNotFoundError indicates a reassignment target could not be
// resolved to exactly one user node. Ambiguous marks the duplicate-node
// anomaly, which requires manual repair rather than a guess.
type SupplierNotFoundError struct {
	ExternalID string
	Ambiguous  bool
}

func (e *SupplierNotFoundError) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("supplier %q resolves to multiple user nodes; manual repair required", e.ExternalID)
	}
	return fmt.Sprintf("supplier %q not found", e.ExternalID)
}

// UnavailableError indicates a transient store failure. The request is safe
// to retry by the caller; the core never retries multi-step protocols.
type UnavailableError struct {
	Message string
	Err     error
}

func (e *UnavailableError) Error() string { return e.Message }

func (e *UnavailableError) Unwrap() error { return e.Err }

// InvariantError indicates the post-condition check after a reassignment
// sequence failed. Fatal for the request; never silently swallowed.
type InvariantError struct {
	GroceryUID  string
	WantUID     string // empty when the grocery should end up unassigned
	LiveSources []string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("responsible-supplier invariant violated for grocery %s: want %q, live edges from %v",
		e.GroceryUID, e.WantUID, e.LiveSources)
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrUnavailable wraps a transient store error.
func ErrUnavailable(err error) *UnavailableError {
	return &UnavailableError{Message: "graph store unavailable", Err: err}
}

// Denial reasons carried by AccessDeniedError.
const (
	ReasonAdminOnly           = "admin_only"
	ReasonNotResponsible      = "not_responsible"
	ReasonIncomeReadForbidden = "income_read_forbidden"
)
