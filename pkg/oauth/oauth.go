// Package oauth implements the TikTok Login Kit authorization-code flow:
// authorization URLs with CSRF state and optional PKCE, code exchange, token
// refresh, and token revocation.
//
// A Manager holds only credentials and endpoints. State and verifiers minted
// for an authorization attempt must be persisted by the caller until the
// callback arrives, and compared with VerifyState before exchanging the code.
package oauth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wrale/tiktok-api-v2/pkg/envelope"
)

const (
	// TikTok endpoints
	DefaultAuthURL   = "https://www.tiktok.com/v2/auth/authorize/"
	DefaultTokenURL  = "https://open.tiktokapis.com/v2/oauth/token/"
	DefaultRevokeURL = "https://open.tiktokapis.com/v2/oauth/revoke/"
)

// Credentials identify the client application
type Credentials struct {
	ClientKey    string
	ClientSecret string `json:"-"`
	RedirectURI  string
}

// String omits the client secret
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{ClientKey:%s RedirectURI:%s}", c.ClientKey, c.RedirectURI)
}

// GoString omits the client secret from %#v
func (c Credentials) GoString() string {
	return c.String()
}

// Validate checks that every credential is present
func (c Credentials) Validate() error {
	if c.ClientKey == "" {
		return errors.New("client key is required")
	}
	if c.ClientSecret == "" {
		return errors.New("client secret is required")
	}
	if c.RedirectURI == "" {
		return errors.New("redirect URI is required")
	}
	return nil
}

// Manager builds authorization URLs and talks to the token endpoints. It is
// safe for concurrent use.
type Manager struct {
	creds     Credentials
	scopes    []Scope
	client    *http.Client
	timeout   time.Duration
	authURL   string
	tokenURL  string
	revokeURL string
	decoder   *envelope.Decoder
}

// Option configures a Manager
type Option func(*Manager)

// WithHTTPClient sets the client used for token requests
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) {
		m.client = c
	}
}

// WithTimeout bounds every token request
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// WithAuthURL overrides the authorization page URL
func WithAuthURL(u string) Option {
	return func(m *Manager) {
		m.authURL = u
	}
}

// WithTokenURL overrides the token endpoint
func WithTokenURL(u string) Option {
	return func(m *Manager) {
		m.tokenURL = u
	}
}

// WithRevokeURL overrides the revoke endpoint
func WithRevokeURL(u string) Option {
	return func(m *Manager) {
		m.revokeURL = u
	}
}

// WithDecoder sets the decoder used for drift reporting
func WithDecoder(d *envelope.Decoder) Option {
	return func(m *Manager) {
		m.decoder = d
	}
}

// NewManager creates a manager requesting scopes, in the given order
func NewManager(creds Credentials, scopes []Scope, opts ...Option) (*Manager, error) {
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	m := &Manager{
		creds:     creds,
		scopes:    append([]Scope(nil), scopes...),
		client:    http.DefaultClient,
		authURL:   DefaultAuthURL,
		tokenURL:  DefaultTokenURL,
		revokeURL: DefaultRevokeURL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Scopes returns a copy of the requested scopes
func (m *Manager) Scopes() []Scope {
	return append([]Scope(nil), m.scopes...)
}
