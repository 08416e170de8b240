package apis

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wrale/tiktok-api-v2/pkg/endpoint"
	"github.com/wrale/tiktok-api-v2/pkg/envelope"
	"github.com/wrale/tiktok-api-v2/pkg/fields"
	"github.com/wrale/tiktok-api-v2/pkg/responses"
)

const videoListPath = "/video/list/"

// VideoListBody is the JSON body of a video list call. Nil members are omitted.
// Both members travel as JSON numbers, which is what the live API accepts,
// not as strings.
type VideoListBody struct {
	Cursor   *int64 `json:"cursor,omitempty"`
	MaxCount *int   `json:"max_count,omitempty"`
}

// VideoList pages through the videos of the user owning the bearer token.
// Pass the cursor from VideoListResponse.NextCursor to fetch the next page.
type VideoList struct {
	Fields  fields.Set[responses.VideoField]
	Body    VideoListBody
	Options endpoint.Options

	client *Client
}

// NewVideoList creates a video list call requesting fs
func NewVideoList(fs fields.Set[responses.VideoField], body VideoListBody, opts endpoint.Options) VideoList {
	return VideoList{Fields: fs, Body: body, Options: opts}
}

// WithClient returns a copy of the call that uses c
func (v VideoList) WithClient(c *Client) VideoList {
	v.client = c
	return v
}

// WithCursor returns a copy of the call starting at cursor
func (v VideoList) WithCursor(cursor int64) VideoList {
	v.Body.Cursor = &cursor
	return v
}

// URL returns the resolved request URL including the fields parameter
func (v VideoList) URL() string {
	c := clientOrDefault(v.client)
	return withFields(endpoint.Resolve(v.Options, c.Endpoint, videoListPath), fields.Encode(v.Fields))
}

// Build prepares the POST request without sending it
func (v VideoList) Build(ctx context.Context, bearer string) (*envelope.Request, error) {
	return newRequest(ctx, http.MethodPost, v.URL(), bearer, v.Body, v.Options)
}

// Execute sends the call and decodes the response
func (v VideoList) Execute(ctx context.Context, bearer string) (*responses.VideoListResponse, error) {
	req, err := v.Build(ctx, bearer)
	if err != nil {
		return nil, fmt.Errorf("building video list request: %w", err)
	}

	c := clientOrDefault(v.client)
	resp, err := envelope.Do[responses.VideoListResponse](ctx, c.HTTP, req, c.Decoder)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	return resp, nil
}
