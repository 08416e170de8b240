package responses

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenResult is a successful token exchange or refresh. Each exchange or
// refresh yields an independent value; callers replace stored credentials
// with it as a whole.
type TokenResult struct {
	OpenID           string `json:"open_id"`
	Scope            string `json:"scope"`
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
	Extra            Extra  `json:"-"`
}

var tokenResultKeys = []string{
	"open_id", "scope", "access_token", "expires_in",
	"refresh_token", "refresh_expires_in", "token_type",
}

type plainTokenResult TokenResult

// UnmarshalJSON decodes the token, keeping unknown members in Extra
func (t *TokenResult) UnmarshalJSON(data []byte) error {
	var p plainTokenResult
	extra, err := UnmarshalWithExtra(data, &p, tokenResultKeys...)
	if err != nil {
		return err
	}
	p.Extra = extra
	*t = TokenResult(p)
	return nil
}

// MarshalJSON encodes the token including Extra
func (t TokenResult) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainTokenResult(t), t.Extra)
}

// IsEmptyExtra reports whether the token decoded without unknown members
func (t TokenResult) IsEmptyExtra() bool {
	return len(t.Extra) == 0
}

// Expiry returns when the access token expires, counted from issued
func (t TokenResult) Expiry(issued time.Time) time.Time {
	return issued.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// RefreshExpiry returns when the refresh token expires, counted from issued
func (t TokenResult) RefreshExpiry(issued time.Time) time.Time {
	return issued.Add(time.Duration(t.RefreshExpiresIn) * time.Second)
}

// Token converts the result into an oauth2.Token issued at issued, so it can
// back an oauth2.TokenSource or an oauth2 HTTP client
func (t TokenResult) Token(issued time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry(issued),
		ExpiresIn:    t.ExpiresIn,
	}
	return tok.WithExtra(map[string]any{
		"open_id":            t.OpenID,
		"scope":              t.Scope,
		"refresh_expires_in": t.RefreshExpiresIn,
	})
}

// TokenError is the error body of the token and revoke endpoints. Its shape
// differs from ErrorPayload.
type TokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	LogID            string `json:"log_id"`
	Extra            Extra  `json:"-"`
}

type plainTokenError TokenError

// UnmarshalJSON decodes the error, keeping unknown members in Extra
func (e *TokenError) UnmarshalJSON(data []byte) error {
	var p plainTokenError
	extra, err := UnmarshalWithExtra(data, &p, "error", "error_description", "log_id")
	if err != nil {
		return err
	}
	p.Extra = extra
	*e = TokenError(p)
	return nil
}

// MarshalJSON encodes the error including Extra
func (e TokenError) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainTokenError(e), e.Extra)
}

// IsEmptyExtra reports whether the error decoded without unknown members
func (e TokenError) IsEmptyExtra() bool {
	return len(e.Extra) == 0
}
