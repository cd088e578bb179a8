package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrProductNotFound is returned when no product matches an id.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProductID is returned when an id is not a well-formed identifier.
	ErrInvalidProductID = errors.New("invalid product ID")
	// ErrAdminNotFound is returned when the admin record does not exist.
	ErrAdminNotFound = errors.New("admin user not found")
	// ErrAdminExists is returned when creating a second admin record.
	ErrAdminExists = errors.New("admin user already exists")
	// ErrInvalidCredentials is returned for any failed login, whatever the cause.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrIncorrectPassword is returned when a credential change is not
	// confirmed by the stored password.
	ErrIncorrectPassword = errors.New("incorrect current password")
	// ErrNoFile is returned when an upload carries no file.
	ErrNoFile = errors.New("no file provided")
	// ErrInvalidToken is returned for malformed, expired, revoked or forged session tokens.
	ErrInvalidToken = errors.New("invalid session token")
)

// Messages shown to clients.
const (
	MsgUnexpected      = "An unexpected error occurred."
	MsgProductNotFound = "Product not found"
	MsgInvalidID       = "Invalid product ID"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// ValidationError carries field-keyed messages for a rejected payload.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given summary.
func NewValidationError(message string, fields map[string][]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Errors:  e.Fields,
	}
}

// IsInternal reports whether the error hides an upstream failure.
func (e *HTTPError) IsInternal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unknown becomes
// a generic 500 so upstream details never reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: verr.Message, Fields: verr.Fields}
	case errors.Is(err, ErrInvalidProductID):
		return NewHTTPError(http.StatusBadRequest, MsgInvalidID)
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, MsgProductNotFound)
	case errors.Is(err, ErrNoFile):
		return NewHTTPError(http.StatusBadRequest, "No file provided.")
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	default:
		return NewHTTPError(http.StatusInternalServerError, MsgUnexpected)
	}
}
