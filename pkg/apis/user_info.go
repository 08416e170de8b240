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

const userInfoPath = "/user/info/"

// UserInfo fetches the profile of the user owning the bearer token
type UserInfo struct {
	Fields  fields.Set[responses.UserField]
	Options endpoint.Options

	client *Client
}

// NewUserInfo creates a user info call requesting fs
func NewUserInfo(fs fields.Set[responses.UserField], opts endpoint.Options) UserInfo {
	return UserInfo{Fields: fs, Options: opts}
}

// WithClient returns a copy of the call that uses c
func (u UserInfo) WithClient(c *Client) UserInfo {
	u.client = c
	return u
}

// URL returns the resolved request URL including the fields parameter
func (u UserInfo) URL() string {
	c := clientOrDefault(u.client)
	return withFields(endpoint.Resolve(u.Options, c.Endpoint, userInfoPath), fields.Encode(u.Fields))
}

// Build prepares the GET request without sending it
func (u UserInfo) Build(ctx context.Context, bearer string) (*envelope.Request, error) {
	return newRequest(ctx, http.MethodGet, u.URL(), bearer, nil, u.Options)
}

// Execute sends the call and decodes the response
func (u UserInfo) Execute(ctx context.Context, bearer string) (*responses.UserInfoResponse, error) {
	req, err := u.Build(ctx, bearer)
	if err != nil {
		return nil, fmt.Errorf("building user info request: %w", err)
	}

	c := clientOrDefault(u.client)
	resp, err := envelope.Do[responses.UserInfoResponse](ctx, c.HTTP, req, c.Decoder)
	if err != nil {
		return nil, fmt.Errorf("fetching user info: %w", err)
	}
	return resp, nil
}
