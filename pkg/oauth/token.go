package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wrale/tiktok-api-v2/pkg/envelope"
	"github.com/wrale/tiktok-api-v2/pkg/responses"
)

// Exchange trades an authorization code for tokens. verifier is the
// CodeVerifier of a PKCE attempt, or empty for a CSRF-only attempt.
func (m *Manager) Exchange(ctx context.Context, code, verifier string) (*responses.TokenResult, error) {
	form := m.baseForm()
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", m.creds.RedirectURI)
	if verifier != "" {
		form.Set("code_verifier", verifier)
	}

	token, err := m.executeToken(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return token, nil
}

// Refresh obtains new tokens with a refresh token. The result replaces the
// previous tokens entirely.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (*responses.TokenResult, error) {
	form := m.baseForm()
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	token, err := m.executeToken(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	return token, nil
}

// Revoke invalidates an access token. Any 2xx response is success.
func (m *Manager) Revoke(ctx context.Context, accessToken string) error {
	form := m.baseForm()
	form.Set("token", accessToken)

	resp, cancel, err := m.send(ctx, m.revokeURL, form)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	defer cancel()
	defer resp.Body.Close()

	if envelope.IsSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("revoking token: %w",
			&envelope.OpaqueError{Status: resp.StatusCode, Text: fmt.Sprintf("reading error body: %v", err)})
	}
	return fmt.Errorf("revoking token: %w", m.tokenFailure(resp.StatusCode, body))
}

func (m *Manager) baseForm() url.Values {
	return url.Values{
		"client_key":    {m.creds.ClientKey},
		"client_secret": {m.creds.ClientSecret},
	}
}

// send posts form to endpoint with the headers the token endpoints require
func (m *Manager) send(ctx context.Context, endpoint string, form url.Values) (*http.Response, context.CancelFunc, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-cache")

	return envelope.Send(ctx, m.client, &envelope.Request{Request: req, Timeout: m.timeout})
}

func (m *Manager) executeToken(ctx context.Context, form url.Values) (*responses.TokenResult, error) {
	resp, cancel, err := m.send(ctx, m.tokenURL, form)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if !envelope.IsSuccess(resp.StatusCode) {
			return nil, &envelope.OpaqueError{Status: resp.StatusCode, Text: fmt.Sprintf("reading error body: %v", err)}
		}
		return nil, envelope.Classify(fmt.Errorf("reading token response: %w", err))
	}

	if !envelope.IsSuccess(resp.StatusCode) {
		return nil, m.tokenFailure(resp.StatusCode, body)
	}

	// The token endpoint may report failures with a 2xx status
	var shape struct {
		Error       string `json:"error"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return nil, &envelope.SerializationError{Status: resp.StatusCode, Err: err}
	}
	if shape.Error != "" && shape.AccessToken == "" {
		return nil, m.tokenFailure(resp.StatusCode, body)
	}

	var token responses.TokenResult
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, &envelope.SerializationError{Status: resp.StatusCode, Err: err}
	}
	m.decoder.ReportDrift(&token)
	return &token, nil
}

// tokenFailure decodes the token error shape, falling back to the raw text
func (m *Manager) tokenFailure(status int, body []byte) error {
	var payload responses.TokenError
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &envelope.OpaqueError{Status: status, Text: string(body)}
	}
	m.decoder.ReportDrift(&payload)
	return &envelope.OAuthError{Status: status, Payload: payload}
}
