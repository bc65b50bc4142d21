package shared

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig     = fmt.Errorf("configuration not found")
	ErrInvalidConfig     = fmt.Errorf("invalid configuration")
	ErrMissingCredential = fmt.Errorf("missing credential: no access token available")

	// API errors
	ErrRequestFailed = fmt.Errorf("request failed")
	ErrNotFound      = fmt.Errorf("no matching results found")

	// Input validation errors
	ErrMissingParameter     = fmt.Errorf("missing required parameter")
	ErrConflictingParameter = fmt.Errorf("conflicting parameters")
	ErrInvalidSelection     = fmt.Errorf("invalid selection")
	ErrInvalidInput         = fmt.Errorf("invalid input")
	ErrMissingArgument      = fmt.Errorf("missing required argument")
	ErrInvalidArgument      = fmt.Errorf("invalid argument")
	ErrInvalidFlag          = fmt.Errorf("invalid flag value")
)

// RequestFailedError is returned for any non-200 response.
//
// The message embeds the numeric status and the raw body verbatim so callers can match on substrings like "401".
// Use [errors.As] to get at StatusCode without parsing.
type RequestFailedError struct {
	StatusCode int
	Body       string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%v: status %d, body: %s", ErrRequestFailed, e.StatusCode, e.Body)
}

// Is lets [errors.Is] match [ErrRequestFailed].
func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Temporary reports whether the status is one a caller might reasonably retry (429 or 5xx).
//
// Nothing in this module retries on its own.
func (e *RequestFailedError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a [RequestFailedError].
func StatusCode(err error) int {
	var rfe *RequestFailedError
	if errors.As(err, &rfe) {
		return rfe.StatusCode
	}
	return 0
}
