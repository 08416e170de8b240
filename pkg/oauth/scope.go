package oauth

import (
	"fmt"
	"strings"

	"github.com/wrale/tiktok-api-v2/pkg/responses"
)

// Scope is a permission requested during authorization
type Scope int

// Scopes this package can request
const (
	ScopeResearchAdlibBasic Scope = iota
	ScopeResearchDataBasic
	ScopeUserInfoBasic
	ScopeUserInfoProfile
	ScopeUserInfoStats
	ScopeVideoList
	ScopeVideoPublish
	ScopeVideoUpload
)

// String returns the wire name of the scope
func (s Scope) String() string {
	switch s {
	case ScopeResearchAdlibBasic:
		return "research.adlib.basic"
	case ScopeResearchDataBasic:
		return "research.data.basic"
	case ScopeUserInfoBasic:
		return "user.info.basic"
	case ScopeUserInfoProfile:
		return "user.info.profile"
	case ScopeUserInfoStats:
		return "user.info.stats"
	case ScopeVideoList:
		return "video.list"
	case ScopeVideoPublish:
		return "video.publish"
	case ScopeVideoUpload:
		return "video.upload"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ParseScope maps a wire name to its Scope
func ParseScope(s string) (Scope, error) {
	switch s {
	case "research.adlib.basic":
		return ScopeResearchAdlibBasic, nil
	case "research.data.basic":
		return ScopeResearchDataBasic, nil
	case "user.info.basic":
		return ScopeUserInfoBasic, nil
	case "user.info.profile":
		return ScopeUserInfoProfile, nil
	case "user.info.stats":
		return ScopeUserInfoStats, nil
	case "video.list":
		return ScopeVideoList, nil
	case "video.publish":
		return ScopeVideoPublish, nil
	case "video.upload":
		return ScopeVideoUpload, nil
	default:
		return 0, fmt.Errorf("scope %q: %w", s, responses.ErrUnknownValue)
	}
}

// AllScopes returns every scope in declaration order
func AllScopes() []Scope {
	return []Scope{
		ScopeResearchAdlibBasic,
		ScopeResearchDataBasic,
		ScopeUserInfoBasic,
		ScopeUserInfoProfile,
		ScopeUserInfoStats,
		ScopeVideoList,
		ScopeVideoPublish,
		ScopeVideoUpload,
	}
}

// JoinScopes joins the wire names with "," in the given order
func JoinScopes(scopes []Scope) string {
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = s.String()
	}
	return strings.Join(names, ",")
}

// ParseScopes splits a granted scope list as returned by the token endpoint.
// Names this package does not know are returned in unknown rather than
// rejected.
func ParseScopes(granted string) (known []Scope, unknown []string) {
	for _, name := range strings.Split(granted, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if s, err := ParseScope(name); err == nil {
			known = append(known, s)
		} else {
			unknown = append(unknown, name)
		}
	}
	return known, unknown
}
