package crossref

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the Crossref client.
var (
	// ErrRateLimited indicates the service answered 429 Too Many Requests.
	ErrRateLimited = errors.New("Crossref rate limit exceeded")

	// ErrAPIError indicates a non-success HTTP response.
	ErrAPIError = errors.New("Crossref API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Crossref")

	// ErrInvalidResponse indicates a response that does not match the
	// expected works schema.
	ErrInvalidResponse = errors.New("invalid response from Crossref")
)

// APIError represents a non-success HTTP response from the works endpoint.
type APIError struct {
	StatusCode int
	Status     string // Status text (e.g., "503 Service Unavailable")
	Message    string // Optional body excerpt
}

func (e *APIError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message != "" {
		return fmt.Sprintf("Crossref API error (status %s): %s", status, e.Message)
	}
	return fmt.Sprintf("Crossref API error (status %s)", status)
}

// Is lets errors.Is match APIError values against ErrAPIError, and 429
// responses against ErrRateLimited.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAPIError:
		return true
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsNetworkError returns true if the request never got a response.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetworkError)
}

// StatusCode returns the HTTP status carried by err, or 0 if there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
