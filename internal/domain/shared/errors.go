package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError carrying the same code.
// This lets errors.Is(err, ErrInsufficientStock) match errors built with a custom message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes surfaced to callers
const (
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeNotAssigned            = "NOT_ASSIGNED"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeAlreadyProcessed       = "ALREADY_PROCESSED"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeDuplicateSKU           = "DUPLICATE_SKU"
	CodeInvoiceAlreadyExists   = "INVOICE_ALREADY_EXISTS"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput           = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict    = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized           = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden              = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrNotAssigned            = NewDomainError(CodeNotAssigned, "Caller is not the assigned technician")
	ErrInvalidStateTransition = NewDomainError(CodeInvalidStateTransition, "Operation not allowed in current state")
	ErrAlreadyProcessed       = NewDomainError(CodeAlreadyProcessed, "Request has already been processed")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrDuplicateSKU           = NewDomainError(CodeDuplicateSKU, "SKU is already registered")
	ErrInvoiceAlreadyExists   = NewDomainError(CodeInvoiceAlreadyExists, "Invoice already exists for this order")
)

// NewInvalidStateTransition reports an illegal jump between two states
func NewInvalidStateTransition(current, requested string) *DomainError {
	return NewDomainError(CodeInvalidStateTransition,
		fmt.Sprintf("Cannot transition from %s to %s", current, requested))
}

// NewNotFound reports an unresolved entity id
func NewNotFound(entity string, id fmt.Stringer) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %s not found", entity, id))
}

// ErrorCode extracts the DomainError code from err, or "" for non-domain errors
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
