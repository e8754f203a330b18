package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/oleg578/delimconv"
)

// Error codes for structured API responses.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeEmptyDelimiter  = "EMPTY_DELIMITER"
	CodeEmptyInput      = "EMPTY_INPUT"
	CodeNoDataFound     = "NO_DATA_FOUND"
	CodeInputTooLarge   = "INPUT_TOO_LARGE"
	CodeInternalError   = "INTERNAL_ERROR"
)

// APIError represents a structured API error response.
type APIError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithRequestID returns a copy of the error with the request ID set.
func (e *APIError) WithRequestID(requestID string) *APIError {
	return &APIError{
		Code:      e.Code,
		Message:   e.Message,
		Details:   e.Details,
		RequestID: requestID,
	}
}

// HTTPStatusCode returns the appropriate HTTP status code for the error.
func (e *APIError) HTTPStatusCode() int {
	switch e.Code {
	case CodeValidationError, CodeEmptyDelimiter, CodeEmptyInput:
		return http.StatusBadRequest
	case CodeNoDataFound:
		return http.StatusUnprocessableEntity
	case CodeInputTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *APIError {
	return &APIError{Code: CodeValidationError, Message: message}
}

// NewInternalError creates an internal server error.
func NewInternalError(message string) *APIError {
	return &APIError{Code: CodeInternalError, Message: message}
}

// FromConvertError maps a conversion failure onto an APIError.
func FromConvertError(err error) *APIError {
	var derr *delimconv.DelimiterError
	switch {
	case errors.As(err, &derr):
		return &APIError{
			Code:    CodeEmptyDelimiter,
			Message: fmt.Sprintf("%s delimiter cannot be empty", derr.Side),
			Details: map[string]any{"side": derr.Side},
		}
	case errors.Is(err, delimconv.ErrEmptyDelimiter):
		return &APIError{Code: CodeEmptyDelimiter, Message: "delimiter cannot be empty"}
	case errors.Is(err, delimconv.ErrEmptyInput):
		return &APIError{Code: CodeEmptyInput, Message: "input text is empty"}
	case errors.Is(err, delimconv.ErrInvalidOption):
		return NewValidationError(err.Error())
	case errors.Is(err, delimconv.ErrNoDataFound):
		return &APIError{Code: CodeNoDataFound, Message: "no data found, check the input format"}
	default:
		return NewInternalError("conversion failed")
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an APIError as a JSON response.
func WriteError(w http.ResponseWriter, err *APIError) {
	WriteJSON(w, err.HTTPStatusCode(), err)
}
