package responses

import (
	"fmt"

	"github.com/wrale/tiktok-api-v2/pkg/fields"
)

// User is the profile returned by the user info endpoint. Only the fields
// requested through the "fields" parameter are populated.
type User struct {
	OpenID          *string `json:"open_id,omitempty"`
	UnionID         *string `json:"union_id,omitempty"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	AvatarURL100    *string `json:"avatar_url_100,omitempty"`
	AvatarLargeURL  *string `json:"avatar_large_url,omitempty"`
	DisplayName     *string `json:"display_name,omitempty"`
	BioDescription  *string `json:"bio_description,omitempty"`
	ProfileDeepLink *string `json:"profile_deep_link,omitempty"`
	IsVerified      *bool   `json:"is_verified,omitempty"`
	Username        *string `json:"username,omitempty"`
	FollowerCount   *int64  `json:"follower_count,omitempty"`
	FollowingCount  *int64  `json:"following_count,omitempty"`
	LikesCount      *int64  `json:"likes_count,omitempty"`
	VideoCount      *int64  `json:"video_count,omitempty"`
	Extra           Extra   `json:"-"`
}

type plainUser User

// UnmarshalJSON decodes the user, keeping unknown members in Extra
func (u *User) UnmarshalJSON(data []byte) error {
	var p plainUser
	extra, err := UnmarshalWithExtra(data, &p, fieldNames(AllUserFields().Values())...)
	if err != nil {
		return err
	}
	p.Extra = extra
	*u = User(p)
	return nil
}

// MarshalJSON encodes the user including Extra
func (u User) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainUser(u), u.Extra)
}

// IsEmptyExtra reports whether the user decoded without unknown members
func (u User) IsEmptyExtra() bool {
	return len(u.Extra) == 0
}

// UserField selects an attribute of User
type UserField int

// User fields
const (
	UserFieldOpenID UserField = iota
	UserFieldUnionID
	UserFieldAvatarURL
	UserFieldAvatarURL100
	UserFieldAvatarLargeURL
	UserFieldDisplayName
	UserFieldBioDescription
	UserFieldProfileDeepLink
	UserFieldIsVerified
	UserFieldUsername
	UserFieldFollowerCount
	UserFieldFollowingCount
	UserFieldLikesCount
	UserFieldVideoCount
)

// String returns the wire name of the field
func (f UserField) String() string {
	switch f {
	case UserFieldOpenID:
		return "open_id"
	case UserFieldUnionID:
		return "union_id"
	case UserFieldAvatarURL:
		return "avatar_url"
	case UserFieldAvatarURL100:
		return "avatar_url_100"
	case UserFieldAvatarLargeURL:
		return "avatar_large_url"
	case UserFieldDisplayName:
		return "display_name"
	case UserFieldBioDescription:
		return "bio_description"
	case UserFieldProfileDeepLink:
		return "profile_deep_link"
	case UserFieldIsVerified:
		return "is_verified"
	case UserFieldUsername:
		return "username"
	case UserFieldFollowerCount:
		return "follower_count"
	case UserFieldFollowingCount:
		return "following_count"
	case UserFieldLikesCount:
		return "likes_count"
	case UserFieldVideoCount:
		return "video_count"
	default:
		return fmt.Sprintf("UserField(%d)", int(f))
	}
}

// ParseUserField maps a wire name to its UserField
func ParseUserField(s string) (UserField, error) {
	switch s {
	case "open_id":
		return UserFieldOpenID, nil
	case "union_id":
		return UserFieldUnionID, nil
	case "avatar_url":
		return UserFieldAvatarURL, nil
	case "avatar_url_100":
		return UserFieldAvatarURL100, nil
	case "avatar_large_url":
		return UserFieldAvatarLargeURL, nil
	case "display_name":
		return UserFieldDisplayName, nil
	case "bio_description":
		return UserFieldBioDescription, nil
	case "profile_deep_link":
		return UserFieldProfileDeepLink, nil
	case "is_verified":
		return UserFieldIsVerified, nil
	case "username":
		return UserFieldUsername, nil
	case "follower_count":
		return UserFieldFollowerCount, nil
	case "following_count":
		return UserFieldFollowingCount, nil
	case "likes_count":
		return UserFieldLikesCount, nil
	case "video_count":
		return UserFieldVideoCount, nil
	default:
		return 0, fmt.Errorf("user field %q: %w", s, ErrUnknownValue)
	}
}

// BasicUserFields returns the fields granted by the user.info.basic scope
func BasicUserFields() fields.Set[UserField] {
	return fields.New(
		UserFieldOpenID,
		UserFieldUnionID,
		UserFieldAvatarURL,
		UserFieldAvatarURL100,
		UserFieldAvatarLargeURL,
		UserFieldDisplayName,
	)
}

// ProfileUserFields returns the fields granted by the user.info.profile scope
func ProfileUserFields() fields.Set[UserField] {
	return fields.New(
		UserFieldBioDescription,
		UserFieldProfileDeepLink,
		UserFieldIsVerified,
		UserFieldUsername,
	)
}

// StatsUserFields returns the fields granted by the user.info.stats scope
func StatsUserFields() fields.Set[UserField] {
	return fields.New(
		UserFieldFollowerCount,
		UserFieldFollowingCount,
		UserFieldLikesCount,
		UserFieldVideoCount,
	)
}

// AllUserFields returns every user field
func AllUserFields() fields.Set[UserField] {
	return BasicUserFields().Union(ProfileUserFields(), StatsUserFields())
}
