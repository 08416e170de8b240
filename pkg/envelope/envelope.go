// Package envelope executes prepared requests and normalizes their responses
// into a typed value, an *APIError, or an *OpaqueError.
//
// Every non-2xx decode step falls back to the raw body text, so a response
// from a proxy or maintenance page is never lost.
package envelope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wrale/tiktok-api-v2/pkg/responses"
)

// Request is a prepared HTTP request plus its optional per-call timeout
type Request struct {
	*http.Request
	Timeout time.Duration
}

// Decoder turns raw responses into typed results. A nil *Decoder decodes
// without drift reporting.
type Decoder struct {
	// Logger receives a warning whenever a payload carries unmodeled members
	Logger *log.Logger

	// OnDrift, if set, is called with the decoded value when it carries
	// unmodeled members. It must not modify the value.
	OnDrift func(v any)
}

// NewDecoder creates a decoder that reports drift to logger
func NewDecoder(logger *log.Logger) *Decoder {
	return &Decoder{Logger: logger}
}

// IsSuccess reports whether status is in the 2xx range
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// Send executes req with client, applying req.Timeout to ctx. The returned
// cancel func must be called once the response body has been consumed.
func Send(ctx context.Context, client *http.Client, req *Request) (*http.Response, context.CancelFunc, error) {
	if client == nil {
		client = http.DefaultClient
	}

	cancel := context.CancelFunc(func() {})
	if req.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
	}

	resp, err := client.Do(req.Request.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, nil, Classify(err)
	}
	return resp, cancel, nil
}

// Do sends req and decodes the response into T
func Do[T any](ctx context.Context, client *http.Client, req *Request, d *Decoder) (*T, error) {
	resp, cancel, err := Send(ctx, client, req)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return Decode[T](d, resp)
}

// Decode consumes and closes resp.Body. A 2xx body must decode into T; any
// other status is classified by DecodeFailure.
func Decode[T any](d *Decoder, resp *http.Response) (*T, error) {
	defer resp.Body.Close()

	if !IsSuccess(resp.StatusCode) {
		return nil, d.DecodeFailure(resp.StatusCode, resp.Body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(fmt.Errorf("reading response body: %w", err))
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, &SerializationError{Status: resp.StatusCode, Err: err}
	}

	d.ReportDrift(&v)
	return &v, nil
}

// DecodeFailure classifies a non-2xx body: an *APIError when it holds a
// decodable "error" object, otherwise an *OpaqueError with the raw text
func (d *Decoder) DecodeFailure(status int, body io.Reader) error {
	text, err := io.ReadAll(body)
	if err != nil {
		return &OpaqueError{Status: status, Text: fmt.Sprintf("reading error body: %v", err)}
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(text, &members); err != nil {
		return &OpaqueError{Status: status, Text: string(text)}
	}

	raw, ok := members["error"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return &OpaqueError{Status: status, Text: string(text)}
	}

	var payload responses.ErrorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return &OpaqueError{Status: status, Text: string(text)}
	}

	d.ReportDrift(&payload)
	return &APIError{Status: status, Payload: payload}
}

// ReportDrift logs and forwards v when it carries unmodeled members. It never
// fails the call.
func (d *Decoder) ReportDrift(v any) {
	if d == nil {
		return
	}
	drifter, ok := v.(responses.Drifter)
	if !ok || drifter.IsEmptyExtra() {
		return
	}
	if d.Logger != nil {
		d.Logger.Warn("response contains unmodeled fields", "type", fmt.Sprintf("%T", v))
	}
	if d.OnDrift != nil {
		d.OnDrift(v)
	}
}

// Classify maps a transport or body read failure onto *TimeoutError or
// *TransportError
func Classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Err: err}
	}
	return &TransportError{Err: err}
}
