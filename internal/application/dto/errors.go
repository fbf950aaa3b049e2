// Package dto provides Data Transfer Objects for the application layer.
package dto

import "fmt"

// Request decoding errors. These are transport-level: the gateway rejects
// the request outright instead of producing a result envelope.
var (
	// ErrEmptyBody is returned when a call request has no body.
	ErrEmptyBody = NewValidationError("request body cannot be empty")

	// ErrBodyNotJSONObject is returned when a call request body is not a
	// JSON object.
	ErrBodyNotJSONObject = NewValidationError("request body must be a JSON object")

	// ErrMissingToolName is returned when no operation name can be
	// extracted from a call request.
	ErrMissingToolName = NewValidationError("request has no tool name")
)

// ValidationError represents a request validation error in the application
// layer. Its message is written for the wire, so it carries no prefix.
type ValidationError struct {
	Message string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// UnknownOperationError reports a call that named an operation the catalog
// cannot resolve. The name is carried through exactly as the client sent it.
type UnknownOperationError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownOperationError) Error() string {
	return "Unknown tool: " + e.Name
}

// MissingParameterError reports a required parameter that was absent after
// normalization. Parameter is the declared name, not the client's spelling.
type MissingParameterError struct {
	Operation string
	Parameter string
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Parameter)
}

// InvalidParameterError reports an argument value that could not be coerced
// to its declared parameter type.
type InvalidParameterError struct {
	Operation string
	Parameter string
	Err       error
}

// Error implements the error interface.
func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid value for parameter %q: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying coercion error.
func (e *InvalidParameterError) Unwrap() error {
	return e.Err
}
