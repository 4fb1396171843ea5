package types

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError represents the JSON error envelope returned to clients.
type APIError struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param,omitempty"`
	Code    *string `json:"code,omitempty"`
}

// Error type constants
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeNotFound       = "not_found_error"
	ErrorTypeRateLimit      = "rate_limit_error"
	ErrorTypeUpstream       = "upstream_error"
	ErrorTypeTimeout        = "timeout_error"
	ErrorTypeServer         = "server_error"
)

// NewAPIError creates a new API error.
func NewAPIError(message, errType string) *APIError {
	return &APIError{
		Error: ErrorDetail{
			Message: message,
			Type:    errType,
		},
	}
}

// NewAPIErrorWithCode creates a new API error with a code.
func NewAPIErrorWithCode(message, errType, code string) *APIError {
	return &APIError{
		Error: ErrorDetail{
			Message: message,
			Type:    errType,
			Code:    &code,
		},
	}
}

// NewAPIErrorWithParam creates a new API error with a parameter reference.
func NewAPIErrorWithParam(message, errType, param string) *APIError {
	return &APIError{
		Error: ErrorDetail{
			Message: message,
			Type:    errType,
			Param:   &param,
		},
	}
}

// WriteError writes an API error to the response writer.
func WriteError(w http.ResponseWriter, statusCode int, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(err)
}

// ErrInvalidRequest creates an invalid request error.
func ErrInvalidRequest(message string) *APIError {
	return NewAPIError(message, ErrorTypeInvalidRequest)
}

// ErrNotFound creates a not found error.
func ErrNotFound(message string) *APIError {
	return NewAPIError(message, ErrorTypeNotFound)
}

// ErrServer creates a server error.
func ErrServer(message string) *APIError {
	return NewAPIError(message, ErrorTypeServer)
}

// Field error reasons.
const (
	ReasonMissing = "missing"
	ReasonInvalid = "invalid"
)

// FieldError reports a missing or malformed request field.
type FieldError struct {
	Field  string
	Reason string
	Detail string
}

// MissingField returns a FieldError for an absent required field.
func MissingField(field string) *FieldError {
	return &FieldError{Field: field, Reason: ReasonMissing}
}

// InvalidField returns a FieldError for a present but unusable field.
func InvalidField(field, detail string) *FieldError {
	return &FieldError{Field: field, Reason: ReasonInvalid, Detail: detail}
}

func (e *FieldError) Error() string {
	if e.Reason == ReasonMissing {
		return fmt.Sprintf("missing required field: %s", e.Field)
	}
	if e.Detail != "" {
		return fmt.Sprintf("invalid field %s: %s", e.Field, e.Detail)
	}
	return fmt.Sprintf("invalid field: %s", e.Field)
}
