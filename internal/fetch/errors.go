package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is the cause of an Error for non-200 responses.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrNotHTML is the cause of an Error for responses that are not HTML.
	ErrNotHTML = errors.New("response is not HTML")

	// ErrInvalidProxyAddress is returned when the proxy address is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// Error reports a page that could not be fetched or parsed.
// A fetch failure is local to one crawl branch.
type Error struct {
	// URL is the page that was requested.
	URL string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
