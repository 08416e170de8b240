package oauth

import (
	"fmt"
	"net/url"
	"strings"
)

// AuthorizationRequest is the result of starting an authorization attempt.
// CSRFToken, and CodeVerifier when set, must be persisted until the callback.
type AuthorizationRequest struct {
	URL          string
	CSRFToken    string
	CodeVerifier string
}

// AuthorizationURL builds the authorization page URL with CSRF state only.
// An empty state mints a new token.
func (m *Manager) AuthorizationURL(state string) (AuthorizationRequest, error) {
	state, err := resolveState(state)
	if err != nil {
		return AuthorizationRequest{}, err
	}

	return AuthorizationRequest{
		URL:       m.buildURL(state, nil),
		CSRFToken: state,
	}, nil
}

// AuthorizationURLWithPKCE builds the authorization page URL with CSRF state
// and a fresh S256 code challenge. The returned CodeVerifier must be passed
// to Exchange unmodified. An empty state mints a new token.
func (m *Manager) AuthorizationURLWithPKCE(state string) (AuthorizationRequest, error) {
	state, err := resolveState(state)
	if err != nil {
		return AuthorizationRequest{}, err
	}

	verifier, challenge := NewPKCE()
	return AuthorizationRequest{
		URL:          m.buildURL(state, &challenge),
		CSRFToken:    state,
		CodeVerifier: verifier,
	}, nil
}

func resolveState(state string) (string, error) {
	if state != "" {
		return state, nil
	}
	token, err := NewCSRFToken()
	if err != nil {
		return "", fmt.Errorf("minting csrf token: %w", err)
	}
	return token, nil
}

// buildURL keeps the parameter order of the authorization contract
func (m *Manager) buildURL(state string, challenge *string) string {
	var b strings.Builder
	b.WriteString(m.authURL)
	b.WriteString("?client_key=")
	b.WriteString(url.QueryEscape(m.creds.ClientKey))
	b.WriteString("&response_type=code&scope=")
	b.WriteString(JoinScopes(m.scopes))
	b.WriteString("&redirect_uri=")
	b.WriteString(url.QueryEscape(m.creds.RedirectURI))
	b.WriteString("&state=")
	b.WriteString(url.QueryEscape(state))
	if challenge != nil {
		b.WriteString("&code_challenge=")
		b.WriteString(url.QueryEscape(*challenge))
		b.WriteString("&code_challenge_method=S256")
	}
	return b.String()
}
