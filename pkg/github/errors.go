package github

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// ConfigurationError reports a missing required setting. No upstream call is
// made.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// NotFoundError reports a null user or repository in an otherwise successful
// response.
type NotFoundError struct {
	// Kind is "User" or "Repository".
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s \"%s\" not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TransportError reports a failed HTTP exchange: no response, a non-2xx
// status or an undecodable body.
type TransportError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 && (e.StatusCode < 200 || e.StatusCode > 299) {
		return fmt.Sprintf("GitHub API error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("GitHub API request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError reports a GraphQL error array in the response body.
type ApplicationError struct {
	// Message is the first error's message.
	Message string

	// Type is the first error's type, e.g. "NOT_FOUND", when present.
	Type string
}

func (e *ApplicationError) Error() string {
	return "GraphQL error: " + e.Message
}
