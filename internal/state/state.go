// Package state persists authorization attempts between the redirect to
// TikTok and the callback, and binds each attempt to the browser that
// started it
package state

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wrale/tiktok-api-v2/pkg/oauth"
)

// CookieName is the cookie carrying the CSRF token of the pending attempt
const CookieName = "csrf_token"

var (
	// ErrNotFound indicates the attempt was never saved, already used, or expired
	ErrNotFound = errors.New("authorization attempt not found")

	// ErrEmptyToken indicates an attempt without a CSRF token
	ErrEmptyToken = errors.New("empty csrf token")
)

// Attempt is what must survive until the callback arrives
type Attempt struct {
	CSRFToken    string    `json:"csrf_token"`
	CodeVerifier string    `json:"code_verifier,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store provides attempt storage operations
type Store interface {
	// Save stores an attempt keyed by its CSRF token
	Save(ctx context.Context, a Attempt, expiresIn time.Duration) error

	// Take returns and deletes the attempt. A second Take of the same token
	// returns ErrNotFound.
	Take(ctx context.Context, csrfToken string) (Attempt, error)

	// CheckHealth verifies the store is operational
	CheckHealth(ctx context.Context) error
}

// Manager pairs the stored attempt with a browser cookie
type Manager struct {
	store     Store
	expiresIn time.Duration
	secure    bool
	now       func() time.Time
}

// NewManager creates a new attempt manager. secure marks the cookie
// Secure and should be set whenever the server is reached over TLS.
func NewManager(store Store, expiresIn time.Duration, secure bool) *Manager {
	return &Manager{
		store:     store,
		expiresIn: expiresIn,
		secure:    secure,
		now:       time.Now,
	}
}

// Begin stores req and sets the CSRF cookie on w
func (m *Manager) Begin(ctx context.Context, w http.ResponseWriter, req oauth.AuthorizationRequest) error {
	if req.CSRFToken == "" {
		return ErrEmptyToken
	}

	a := Attempt{
		CSRFToken:    req.CSRFToken,
		CodeVerifier: req.CodeVerifier,
		CreatedAt:    m.now().UTC(),
	}
	if err := m.store.Save(ctx, a, m.expiresIn); err != nil {
		return fmt.Errorf("saving attempt: %w", err)
	}

	http.SetCookie(w, m.cookie(req.CSRFToken, int(m.expiresIn.Seconds())))
	return nil
}

// Complete compares the callback state with the cookie and consumes the
// attempt. A mismatch is oauth.ErrStateMismatch and must be rejected.
// The cookie is cleared in every case.
func (m *Manager) Complete(ctx context.Context, w http.ResponseWriter, r *http.Request, state string) (Attempt, error) {
	var expected string
	if c, err := r.Cookie(CookieName); err == nil {
		expected = c.Value
	}
	http.SetCookie(w, m.cookie("", -1))

	if err := oauth.VerifyState(expected, state); err != nil {
		return Attempt{}, err
	}

	a, err := m.store.Take(ctx, expected)
	if err != nil {
		return Attempt{}, fmt.Errorf("taking attempt: %w", err)
	}
	return a, nil
}

// CheckHealth verifies the attempt store is operational
func (m *Manager) CheckHealth(ctx context.Context) error {
	if err := m.store.CheckHealth(ctx); err != nil {
		return fmt.Errorf("state store health check failed: %w", err)
	}
	return nil
}

// cookie builds the CSRF cookie. SameSite=Lax keeps it on the top-level
// redirect back from TikTok.
func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
