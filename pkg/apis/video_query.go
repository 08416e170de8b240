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

const videoQueryPath = "/video/query/"

// VideoQueryFilters selects the videos to fetch
type VideoQueryFilters struct {
	VideoIDs []string `json:"video_ids,omitempty"`
}

// VideoQueryBody is the JSON body of a video query call
type VideoQueryBody struct {
	Filters *VideoQueryFilters `json:"filters,omitempty"`
}

// VideoQuery fetches specific videos of the user owning the bearer token
type VideoQuery struct {
	Fields  fields.Set[responses.VideoField]
	Body    VideoQueryBody
	Options endpoint.Options

	client *Client
}

// NewVideoQuery creates a video query call requesting fs
func NewVideoQuery(fs fields.Set[responses.VideoField], body VideoQueryBody, opts endpoint.Options) VideoQuery {
	return VideoQuery{Fields: fs, Body: body, Options: opts}
}

// QueryVideoIDs is a shorthand for a body filtering on ids
func QueryVideoIDs(ids ...string) VideoQueryBody {
	return VideoQueryBody{Filters: &VideoQueryFilters{VideoIDs: ids}}
}

// WithClient returns a copy of the call that uses c
func (v VideoQuery) WithClient(c *Client) VideoQuery {
	v.client = c
	return v
}

// URL returns the resolved request URL including the fields parameter
func (v VideoQuery) URL() string {
	c := clientOrDefault(v.client)
	return withFields(endpoint.Resolve(v.Options, c.Endpoint, videoQueryPath), fields.Encode(v.Fields))
}

// Build prepares the POST request without sending it
func (v VideoQuery) Build(ctx context.Context, bearer string) (*envelope.Request, error) {
	return newRequest(ctx, http.MethodPost, v.URL(), bearer, v.Body, v.Options)
}

// Execute sends the call and decodes the response
func (v VideoQuery) Execute(ctx context.Context, bearer string) (*responses.VideoQueryResponse, error) {
	req, err := v.Build(ctx, bearer)
	if err != nil {
		return nil, fmt.Errorf("building video query request: %w", err)
	}

	c := clientOrDefault(v.client)
	resp, err := envelope.Do[responses.VideoQueryResponse](ctx, c.HTTP, req, c.Decoder)
	if err != nil {
		return nil, fmt.Errorf("querying videos: %w", err)
	}
	return resp, nil
}
