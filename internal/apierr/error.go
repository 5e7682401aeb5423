// Package apierr defines the errors returned by the GitHub API client.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField is wrapped by a DecodeError when a required JSON field is
// absent or null.
var ErrMissingField = errors.New("required field is missing")

// NetworkError is returned when a request could not be sent, no response was
// received or the server responded with a non-2xx status code.
type NetworkError struct {
	// URL is the requested URL, without query parameters added by the client.
	URL string
	// StatusCode is 0 when no response was received.
	StatusCode int
	// Body is the response body of a non-2xx response.
	Body []byte
	// Err is the wrapped original error
	Err error
}

func NewTransportError(url string, originalErr error) *NetworkError {
	return &NetworkError{
		URL: url,
		Err: originalErr,
	}
}

func NewStatusError(url string, statusCode int, body []byte, originalErr error) *NetworkError {
	return &NetworkError{
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
		Err:        originalErr,
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("GET %s failed: %s", e.URL, e.Err)
	}

	if e.Err == nil {
		return fmt.Sprintf("GET %s failed with status code %d, response: %q", e.URL, e.StatusCode, string(e.Body))
	}

	return fmt.Sprintf("GET %s failed with status code %d: %s", e.URL, e.StatusCode, e.Err)
}

// DecodeError is returned when data received from the API does not match
// the expected schema.
type DecodeError struct {
	// Schema names what was decoded, e.g. an event type for event
	// payloads or a Go type for response bodies.
	Schema string
	// Field is the JSON field that could not be decoded, it is empty if
	// it is unknown.
	Field string
	// Err is the wrapped original error
	Err error
}

// NewDecodeError returns a DecodeError for schema.
// If err is a *json.UnmarshalTypeError the name of the affected field is
// recorded.
func NewDecodeError(schema string, err error) *DecodeError {
	result := DecodeError{
		Schema: schema,
		Err:    err,
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		result.Field = typeErr.Field
	}

	return &result
}

// NewMissingFieldError returns a DecodeError for a required field that is
// absent or null.
func NewMissingFieldError(schema, field string) *DecodeError {
	return &DecodeError{
		Schema: schema,
		Field:  field,
		Err:    ErrMissingField,
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decoding %s failed: %s", e.Schema, e.Err)
	}

	return fmt.Sprintf("decoding %s failed, field %q: %s", e.Schema, e.Field, e.Err)
}
