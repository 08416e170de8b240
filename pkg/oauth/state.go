package oauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// ErrStateMismatch is returned when a callback's state does not match the
// value persisted for the authorization attempt. Treat it as a possible
// cross-site request forgery.
var ErrStateMismatch = errors.New("oauth state mismatch")

// csrfTokenBytes is the amount of randomness in a minted CSRF token
const csrfTokenBytes = 16

// NewCSRFToken returns 16 random bytes, URL-safe base64 encoded without padding
func NewCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewPKCE returns a fresh code verifier and its S256 challenge
func NewPKCE() (verifier, challenge string) {
	verifier = oauth2.GenerateVerifier()
	return verifier, oauth2.S256ChallengeFromVerifier(verifier)
}

// VerifyState compares the persisted value with the one returned in the
// callback. Both must be non-empty and byte-for-byte equal.
func VerifyState(expected, got string) error {
	if expected == "" || got == "" {
		return ErrStateMismatch
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
		return ErrStateMismatch
	}
	return nil
}
