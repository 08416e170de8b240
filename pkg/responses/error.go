package responses

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wrale/tiktok-api-v2/pkg/fields"
)

// ErrUnknownValue is returned when a wire name matches no known variant
var ErrUnknownValue = errors.New("unknown value")

// Code is the error code carried in every REST response
type Code int

// Known error codes. The zero value is CodeOK.
const (
	CodeOK Code = iota
	CodeAccessTokenInvalid
	CodeInternalError
	CodeInvalidFileUpload
	CodeInvalidParams
	CodeRateLimitExceeded
	CodeScopeNotAuthorized
	CodeScopePermissionMissed
)

// String returns the wire name of the code
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeAccessTokenInvalid:
		return "access_token_invalid"
	case CodeInternalError:
		return "internal_error"
	case CodeInvalidFileUpload:
		return "invalid_file_upload"
	case CodeInvalidParams:
		return "invalid_params"
	case CodeRateLimitExceeded:
		return "rate_limit_exceeded"
	case CodeScopeNotAuthorized:
		return "scope_not_authorized"
	case CodeScopePermissionMissed:
		return "scope_permission_missed"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// ParseCode maps a wire name to its Code
func ParseCode(s string) (Code, error) {
	switch s {
	case "ok":
		return CodeOK, nil
	case "access_token_invalid":
		return CodeAccessTokenInvalid, nil
	case "internal_error":
		return CodeInternalError, nil
	case "invalid_file_upload":
		return CodeInvalidFileUpload, nil
	case "invalid_params":
		return CodeInvalidParams, nil
	case "rate_limit_exceeded":
		return CodeRateLimitExceeded, nil
	case "scope_not_authorized":
		return CodeScopeNotAuthorized, nil
	case "scope_permission_missed":
		return CodeScopePermissionMissed, nil
	default:
		return 0, fmt.Errorf("error code %q: %w", s, ErrUnknownValue)
	}
}

// MarshalJSON encodes the code as its wire name
func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a wire name. Unknown names are an error so that a
// payload with an unexpected code is not mistaken for a known one.
func (c *Code) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCode(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ErrorPayload is the "error" object of a REST response
type ErrorPayload struct {
	Code    *Code   `json:"code,omitempty"`
	Message *string `json:"message,omitempty"`
	LogID   *string `json:"log_id,omitempty"`
	Extra   Extra   `json:"-"`
}

type plainErrorPayload ErrorPayload

// UnmarshalJSON decodes the payload, keeping unknown members in Extra
func (e *ErrorPayload) UnmarshalJSON(data []byte) error {
	var p plainErrorPayload
	extra, err := UnmarshalWithExtra(data, &p, fieldNames(AllErrorFields().Values())...)
	if err != nil {
		return err
	}
	p.Extra = extra
	*e = ErrorPayload(p)
	return nil
}

// MarshalJSON encodes the payload including Extra
func (e ErrorPayload) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainErrorPayload(e), e.Extra)
}

// IsEmptyExtra reports whether the payload decoded without unknown members
func (e ErrorPayload) IsEmptyExtra() bool {
	return len(e.Extra) == 0
}

// IsOK reports whether the payload carries no code or CodeOK
func (e ErrorPayload) IsOK() bool {
	return e.Code == nil || *e.Code == CodeOK
}

// ErrorField selects an attribute of ErrorPayload
type ErrorField int

// Error payload fields
const (
	ErrorFieldCode ErrorField = iota
	ErrorFieldMessage
	ErrorFieldLogID
)

// String returns the wire name of the field
func (f ErrorField) String() string {
	switch f {
	case ErrorFieldCode:
		return "code"
	case ErrorFieldMessage:
		return "message"
	case ErrorFieldLogID:
		return "log_id"
	default:
		return fmt.Sprintf("ErrorField(%d)", int(f))
	}
}

// AllErrorFields returns every error payload field
func AllErrorFields() fields.Set[ErrorField] {
	return fields.New(ErrorFieldCode, ErrorFieldMessage, ErrorFieldLogID)
}

// fieldNames returns the wire names of fs
func fieldNames[F fmt.Stringer](fs []F) []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	return names
}
