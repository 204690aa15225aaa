package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when the username is unknown or the
	// password does not match. Both cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidSession is returned when a bearer token is unknown, revoked or expired.
	ErrInvalidSession = errors.New("invalid or expired session")
	// ErrForbidden is returned when an authenticated user lacks the admin flag.
	ErrForbidden = errors.New("admin privileges required")
	// ErrUserNotFound is returned when a user lookup by ID fails.
	ErrUserNotFound = errors.New("user not found")
	// ErrStorageUnavailable is returned for any backing store failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrProviderUnavailable is returned when an external API (LLM or RPC) fails.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrInvalidInput is returned when a request is well-formed but semantically invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are matched
// by their sentinel; provider and input failures keep their descriptive message.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidSession):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidSession.Error(), "INVALID_SESSION")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrStorageUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, ErrStorageUnavailable.Error(), "STORAGE_UNAVAILABLE")
	case errors.Is(err, ErrProviderUnavailable):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "PROVIDER_UNAVAILABLE")
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
