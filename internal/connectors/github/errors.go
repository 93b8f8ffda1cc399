package github

import (
	"errors"
	"fmt"
	"time"
)

// GitHub-specific errors.
var (
	// ErrInvalidRepository indicates a repository name not of the form owner/name.
	ErrInvalidRepository = errors.New("github: repository must be owner/name")

	// ErrMissingHookID indicates a webhook that was never registered with GitHub.
	ErrMissingHookID = errors.New("github: webhook has no hook id")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
