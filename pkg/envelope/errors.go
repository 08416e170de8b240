package envelope

import (
	"errors"
	"fmt"

	"github.com/wrale/tiktok-api-v2/pkg/responses"
)

// ErrTimeout matches every *TimeoutError with errors.Is
var ErrTimeout = errors.New("request timed out")

// TimeoutError reports that a call exceeded its deadline
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Is reports whether target is ErrTimeout
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// TransportError wraps a connection, TLS, DNS or body read failure
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SerializationError reports a body that had to be JSON but was not, such as
// a 2xx response that does not decode into the expected type
type SerializationError struct {
	Status int
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("decoding response (status %d): %v", e.Status, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// APIError is a non-2xx REST response whose body carried a well-formed
// "error" object
type APIError struct {
	Status  int
	Payload responses.ErrorPayload
}

func (e *APIError) Error() string {
	code, message := "unknown", ""
	if e.Payload.Code != nil {
		code = e.Payload.Code.String()
	}
	if e.Payload.Message != nil {
		message = *e.Payload.Message
	}
	return fmt.Sprintf("api error (status %d): %s: %s", e.Status, code, message)
}

// Code returns the payload code, or false when the payload carried none
func (e *APIError) Code() (responses.Code, bool) {
	if e.Payload.Code == nil {
		return 0, false
	}
	return *e.Payload.Code, true
}

// OpaqueError is a non-2xx response that could not be decoded into a typed
// error. Text holds the raw body, or a description of why it could not be read.
type OpaqueError struct {
	Status int
	Text   string
}

func (e *OpaqueError) Error() string {
	return fmt.Sprintf("unexpected response (status %d): %s", e.Status, e.Text)
}

// OAuthError is an error from the token or revoke endpoints
type OAuthError struct {
	Status  int
	Payload responses.TokenError
}

func (e *OAuthError) Error() string {
	return fmt.Sprintf("oauth error (status %d): %s: %s (log id %s)",
		e.Status, e.Payload.Error, e.Payload.ErrorDescription, e.Payload.LogID)
}
