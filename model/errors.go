package model

import "fmt"

// Standard error codes.
const (
	ErrBadRequest        = "BAD_REQUEST"
	ErrUnauthorized      = "UNAUTHORIZED"
	ErrForbidden         = "FORBIDDEN"
	ErrNotFound          = "NOT_FOUND"
	ErrConflict          = "CONFLICT"
	ErrValidationError   = "VALIDATION_ERROR"
	ErrInvalidTransition = "INVALID_TRANSITION"
	ErrInternalError     = "INTERNAL_ERROR"
)

// Upstream error codes. Every call to the expense backend resolves to a
// three-way result: decoded record, a structured server error, or a
// transport failure. All three are terminal for the current user action;
// nothing in the core retries automatically.
const (
	ErrServerError      = "SERVER_ERROR"
	ErrTransportFailure = "TRANSPORT_FAILURE"
)

// ErrorEnvelope is the standard error shape passed between layers and
// returned by the API. It implements the error interface.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// ServerCode carries the backend's own error code when Code is
	// SERVER_ERROR; empty otherwise.
	ServerCode string `json:"serverCode,omitempty"`
}

// Error implements the error interface.
func (e *ErrorEnvelope) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError returns a BAD_REQUEST error.
func NewBadRequestError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrBadRequest, Message: msg}
}

// NewUnauthorizedError returns an UNAUTHORIZED error.
func NewUnauthorizedError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrUnauthorized, Message: msg}
}

// NewForbiddenError returns a FORBIDDEN error.
func NewForbiddenError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrForbidden, Message: msg}
}

// NewNotFoundError returns a NOT_FOUND error.
func NewNotFoundError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrNotFound, Message: msg}
}

// NewConflictError returns a CONFLICT error.
func NewConflictError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrConflict, Message: msg}
}

// NewValidationError returns a VALIDATION_ERROR carrying the first failing
// field's message. Validation failures never reach the network.
func NewValidationError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrValidationError, Message: msg}
}

// NewInvalidTransitionError returns an INVALID_TRANSITION error for an
// action the current status's strategy does not allow.
func NewInvalidTransitionError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrInvalidTransition, Message: msg}
}

// NewServerError returns a SERVER_ERROR wrapping the backend's structured
// code and message.
func NewServerError(code, msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrServerError, Message: msg, ServerCode: code}
}

// NewTransportFailureError returns a TRANSPORT_FAILURE for network or
// decoding failures.
func NewTransportFailureError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrTransportFailure, Message: msg}
}

// NewInternalError returns an INTERNAL_ERROR.
func NewInternalError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrInternalError,
		Message: "An unexpected error occurred",
	}
}

// CodeOf returns the envelope code of err, or INTERNAL_ERROR for any other
// error type.
func CodeOf(err error) string {
	if ee, ok := err.(*ErrorEnvelope); ok {
		return ee.Code
	}
	return ErrInternalError
}
