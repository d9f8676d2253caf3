package mirror

import (
	"fmt"
	"net/http"
)

// HttpError represents an HTTP error with a specific status code and message
type HttpError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHttpError creates a new HttpError with the given status code and message
func NewHttpError(statusCode int, message string) *HttpError {
	return &HttpError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewHttpErrorWithDetails creates a new HttpError with additional details
func NewHttpErrorWithDetails(statusCode int, message string, details any) *HttpError {
	return &HttpError{
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
	}
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message)
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message)
}

// ErrInternalServerError creates a 500 Internal Server Error
func ErrInternalServerError(message string) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message)
}

// WriteError renders err as a JSON error body. Errors other than
// *HttpError become a 500.
func WriteError(ctx RequestContext, err error) error {
	he, ok := err.(*HttpError)
	if !ok {
		he = ErrInternalServerError(err.Error())
	}
	return ctx.Response().JSON(he.StatusCode, he)
}

// ErrorHandler is middleware turning handler errors into JSON error bodies
func ErrorHandler(next HandlerFunc) HandlerFunc {
	return func(ctx RequestContext) error {
		if err := next(ctx); err != nil {
			return WriteError(ctx, err)
		}
		return nil
	}
}
