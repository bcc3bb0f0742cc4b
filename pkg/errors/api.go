package errors

import "fmt"

/*
APIError is an error the HTTP surface can map straight onto a response:
an HTTP status, a human-readable message and optional detail data.
*/
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

/*
Error implements the error interface for APIError.
*/
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Sentinel errors for the failure classes the service distinguishes.
// Handlers compare against these and decorate them with WithMessagef.
var (
	ErrInvalidRequest = &APIError{Status: 400, Message: "Invalid request"}
	ErrNotFound       = &APIError{Status: 404, Message: "Not found"}
	ErrInternal       = &APIError{Status: 500, Message: "Internal error"}
	ErrUpstream       = &APIError{Status: 502, Message: "Upstream dependency failed"}
)

// WithMessagef creates a *copy* of an APIError with a formatted message.
// It does not modify the original error variable.
func (e *APIError) WithMessagef(format string, args ...any) *APIError {
	newErr := *e
	newErr.Message = fmt.Sprintf(format, args...)
	return &newErr
}

// WithData creates a *copy* of an APIError carrying detail data, such as
// per-field validation messages.
func (e *APIError) WithData(data any) *APIError {
	newErr := *e
	newErr.Data = data
	return &newErr
}
