package oracle

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the similarity service answers with an
// empty body or JSON null. An empty JSON array is a valid ranking.
var ErrEmptyResponse = errors.New("empty response from similarity service")

// ErrResponseTooLarge is returned when a response body exceeds the
// configured maximum size.
var ErrResponseTooLarge = errors.New("response from similarity service is too large")

// AuthError reports a rejected token request.
// It is fatal: no crawl can proceed without a token.
type AuthError struct {
	// StatusCode is the HTTP status returned by the token endpoint.
	StatusCode int

	// Body is the response body, kept for diagnostics.
	Body string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: status %d: %s", e.StatusCode, e.Body)
}

// RequestError reports a non-200 response from the similarity endpoint.
type RequestError struct {
	// StatusCode is the HTTP status returned by the service.
	StatusCode int

	// Body is the response body, kept for diagnostics.
	Body string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("similarity request failed: status %d: %s", e.StatusCode, e.Body)
}
