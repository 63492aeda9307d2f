package dto

import (
	"net/http"

	"github.com/evcare/backend/internal/domain/shared"
)

// Transport-level codes that have no domain counterpart
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeInvalidInput    = shared.CodeInvalidInput
	ErrCodeUnauthorized    = shared.CodeUnauthorized
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
	ErrCodeNotImplemented  = "NOT_IMPLEMENTED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// caller errors
	shared.CodeInvalidInput: http.StatusBadRequest,
	shared.CodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,
	shared.CodeNotAssigned:  http.StatusForbidden,

	// lookups
	shared.CodeNotFound:  http.StatusNotFound,
	ErrCodeRouteNotFound: http.StatusNotFound,

	// conflicts
	shared.CodeAlreadyExists:        http.StatusConflict,
	shared.CodeAlreadyProcessed:     http.StatusConflict,
	shared.CodeDuplicateSKU:         http.StatusConflict,
	shared.CodeInvoiceAlreadyExists: http.StatusConflict,
	shared.CodeConcurrencyConflict:  http.StatusConflict,

	// business rules
	shared.CodeInvalidStateTransition: http.StatusUnprocessableEntity,
	shared.CodeInsufficientStock:      http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeNotImplemented:  http.StatusNotImplemented,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are server errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
