// Package apis builds and executes the typed REST calls of the TikTok Open
// API: user info, video list and video query.
//
// Builders are plain values. Build prepares a request without sending it;
// Execute sends it and routes the response through the envelope package.
package apis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/wrale/tiktok-api-v2/pkg/endpoint"
	"github.com/wrale/tiktok-api-v2/pkg/envelope"
)

// Client carries the dependencies shared by every builder. A nil field falls
// back to its default: http.DefaultClient, endpoint.Default, and no drift
// reporting.
type Client struct {
	HTTP     *http.Client
	Endpoint *endpoint.Config
	Decoder  *envelope.Decoder
}

// DefaultClient returns a client using http.DefaultClient and endpoint.Default
// that reports schema drift to the default logger
func DefaultClient() *Client {
	return &Client{
		HTTP:     http.DefaultClient,
		Endpoint: endpoint.Default,
		Decoder:  envelope.NewDecoder(log.Default().WithPrefix("tiktok")),
	}
}

func clientOrDefault(c *Client) *Client {
	if c == nil {
		return DefaultClient()
	}
	return c
}

// withFields appends the fields query parameter, which is sent even when empty
func withFields(base, encoded string) string {
	return base + "?" + url.Values{"fields": {encoded}}.Encode()
}

// newRequest prepares a bearer-authenticated call. body is JSON encoded when
// non-nil.
func newRequest(ctx context.Context, method, target, bearer string, body any, opts endpoint.Options) (*envelope.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return &envelope.Request{Request: req, Timeout: opts.Timeout}, nil
}
