// ABOUTME: Error taxonomy for the session transport
// ABOUTME: Configuration, HTTP status, and event stream failures with errors.Is support

package session

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrConfiguration matches every *ConfigError.
var ErrConfiguration = errors.New("invalid session configuration")

// ErrRequestFailed matches every *RequestError.
var ErrRequestFailed = errors.New("request failed")

// ErrAuthFailed matches a *RequestError whose status means the session key
// was rejected (401 or 403).
var ErrAuthFailed = errors.New("session key rejected")

// ErrStream matches every *StreamError.
var ErrStream = errors.New("event stream failed")

// ConfigError reports an invalid setting, either when New cannot build a
// transport or when a loaded configuration fails validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// RequestError reports a non-2xx response.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *RequestError) Error() string {
	body := string(e.Body)
	if len(body) > 200 {
		body = body[:197] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// AuthFailure reports whether the server rejected the session key.
func (e *RequestError) AuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return true
	case ErrAuthFailed:
		return e.AuthFailure()
	}
	return false
}

// StreamError reports a broken event stream. Partial holds any reply text the
// caller had assembled before the failure.
type StreamError struct {
	Op      string
	Err     error
	Partial string
}

func (e *StreamError) Error() string {
	if e.Err == nil {
		return "event stream: " + e.Op
	}
	return fmt.Sprintf("event stream: %s: %v", e.Op, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

func (e *StreamError) Is(target error) bool {
	return target == ErrStream
}
