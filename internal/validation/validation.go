// Package validation checks the query parameters the demo server accepts
// from the authorization callback and the video list page
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Validation settings
const (
	MaxStateLength = 256  // Longest accepted state value
	MaxCodeLength  = 1024 // Longest accepted authorization code
)

var (
	// state is minted as unpadded base64url, but callers may supply their
	// own, so accept every unreserved URL character
	stateRegex = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

	// codes are opaque; reject whitespace and control characters only
	codeRegex = regexp.MustCompile(`^[\x21-\x7e]+$`)
)

// ValidationError represents an invalid query parameter
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}

// DeniedError reports a callback where TikTok returned an error instead of
// a code, for example because the user cancelled
type DeniedError struct {
	Code        string
	Description string
}

func (e *DeniedError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("authorization denied: %s", e.Code)
	}
	return fmt.Sprintf("authorization denied: %s: %s", e.Code, e.Description)
}

// Callback holds the validated parameters of an authorization callback
type Callback struct {
	Code   string
	State  string
	Scopes string
}

// ParseCallback validates the callback query. A callback carrying an error
// parameter yields *DeniedError; malformed values yield *ValidationError.
func ParseCallback(q url.Values) (Callback, error) {
	if code := q.Get("error"); code != "" {
		return Callback{}, &DeniedError{
			Code:        code,
			Description: strings.TrimSpace(q.Get("error_description")),
		}
	}

	state := q.Get("state")
	if err := ValidateState(state); err != nil {
		return Callback{}, err
	}

	code := q.Get("code")
	if code == "" {
		return Callback{}, &ValidationError{Param: "code", Message: "missing"}
	}
	if len(code) > MaxCodeLength {
		return Callback{}, &ValidationError{
			Param:   "code",
			Message: fmt.Sprintf("length must not exceed %d characters", MaxCodeLength),
		}
	}
	if !codeRegex.MatchString(code) {
		return Callback{}, &ValidationError{Param: "code", Message: "contains whitespace or control characters"}
	}

	return Callback{
		Code:   code,
		State:  state,
		Scopes: q.Get("scopes"),
	}, nil
}

// ValidateState checks the format of a state value. It does not compare it
// with the stored one.
func ValidateState(state string) error {
	if state == "" {
		return &ValidationError{Param: "state", Message: "missing"}
	}
	if len(state) > MaxStateLength {
		return &ValidationError{
			Param:   "state",
			Message: fmt.Sprintf("length must not exceed %d characters", MaxStateLength),
		}
	}
	if !stateRegex.MatchString(state) {
		return &ValidationError{Param: "state", Message: "must use only unreserved URL characters"}
	}
	return nil
}

// ParseCursor parses the optional video list cursor. An empty value returns
// nil.
func ParseCursor(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	cursor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cursor < 0 {
		return nil, &ValidationError{Param: "cursor", Message: "must be a non-negative integer"}
	}
	return &cursor, nil
}

// ParseMaxCount parses the optional page size, which TikTok caps at 20
func ParseMaxCount(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 20 {
		return nil, &ValidationError{Param: "max_count", Message: "must be between 1 and 20"}
	}
	return &n, nil
}
