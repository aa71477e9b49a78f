// Package upstream holds the error types shared by the third-party API clients.
package upstream

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds as reported to HTTP consumers.
const (
	KindAuth     = "AuthError"
	KindUpstream = "UpstreamError"
)

// StatusError is implemented by errors carrying an upstream status code and raw body.
type StatusError interface {
	error
	Kind() string
	Status() int
	Message() string
}

// AuthError is returned when refreshing an access token fails.
type AuthError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s token refresh failed: status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Kind returns KindAuth.
func (e *AuthError) Kind() string { return KindAuth }

// Status returns the upstream HTTP status code.
func (e *AuthError) Status() int { return e.StatusCode }

// Message returns the raw upstream body.
func (e *AuthError) Message() string { return e.Body }

// UpstreamError is returned when a data call answers with anything but 200 or 204.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Kind returns KindUpstream.
func (e *UpstreamError) Kind() string { return KindUpstream }

// Status returns the upstream HTTP status code.
func (e *UpstreamError) Status() int { return e.StatusCode }

// Message returns the raw upstream body.
func (e *UpstreamError) Message() string { return e.Body }

// AsStatusError finds the first StatusError in err's chain.
func AsStatusError(err error) (StatusError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}
