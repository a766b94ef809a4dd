package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks 401 responses so callers can trigger a login redirect
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]interface{}
}

// Error renders "<status>: <message>". Unauthorized responses keep a
// recognizable suffix regardless of the server-provided message.
func (e *APIError) Error() string {
	if e.StatusCode == http.StatusUnauthorized {
		return fmt.Sprintf("%d: %s Unauthorized", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsConflict reports whether the error is a 409 response
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// IsValidation reports whether the error is a 422 response
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity
}

// IsUnauthorized reports whether the error is a 401 response
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
