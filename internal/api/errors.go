package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError describes a non-2xx response from the service. Message carries the
// response body so the user sees whatever detail the server included.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: server returned %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: server returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an *APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
