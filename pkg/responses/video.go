package responses

import (
	"fmt"

	"github.com/wrale/tiktok-api-v2/pkg/fields"
)

// Video is a single video returned by the video list and query endpoints
type Video struct {
	ID               *string `json:"id,omitempty"`
	CreateTime       *int64  `json:"create_time,omitempty"`
	CoverImageURL    *string `json:"cover_image_url,omitempty"`
	ShareURL         *string `json:"share_url,omitempty"`
	VideoDescription *string `json:"video_description,omitempty"`
	Duration         *int32  `json:"duration,omitempty"`
	Height           *int32  `json:"height,omitempty"`
	Width            *int32  `json:"width,omitempty"`
	Title            *string `json:"title,omitempty"`
	EmbedHTML        *string `json:"embed_html,omitempty"`
	EmbedLink        *string `json:"embed_link,omitempty"`
	LikeCount        *int64  `json:"like_count,omitempty"`
	CommentCount     *int64  `json:"comment_count,omitempty"`
	ShareCount       *int64  `json:"share_count,omitempty"`
	ViewCount        *int64  `json:"view_count,omitempty"`
	Extra            Extra   `json:"-"`
}

type plainVideo Video

// UnmarshalJSON decodes the video, keeping unknown members in Extra
func (v *Video) UnmarshalJSON(data []byte) error {
	var p plainVideo
	extra, err := UnmarshalWithExtra(data, &p, fieldNames(AllVideoFields().Values())...)
	if err != nil {
		return err
	}
	p.Extra = extra
	*v = Video(p)
	return nil
}

// MarshalJSON encodes the video including Extra
func (v Video) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainVideo(v), v.Extra)
}

// IsEmptyExtra reports whether the video decoded without unknown members
func (v Video) IsEmptyExtra() bool {
	return len(v.Extra) == 0
}

// VideoField selects an attribute of Video
type VideoField int

// Video fields
const (
	VideoFieldID VideoField = iota
	VideoFieldCreateTime
	VideoFieldCoverImageURL
	VideoFieldShareURL
	VideoFieldVideoDescription
	VideoFieldDuration
	VideoFieldHeight
	VideoFieldWidth
	VideoFieldTitle
	VideoFieldEmbedHTML
	VideoFieldEmbedLink
	VideoFieldLikeCount
	VideoFieldCommentCount
	VideoFieldShareCount
	VideoFieldViewCount
)

// String returns the wire name of the field
func (f VideoField) String() string {
	switch f {
	case VideoFieldID:
		return "id"
	case VideoFieldCreateTime:
		return "create_time"
	case VideoFieldCoverImageURL:
		return "cover_image_url"
	case VideoFieldShareURL:
		return "share_url"
	case VideoFieldVideoDescription:
		return "video_description"
	case VideoFieldDuration:
		return "duration"
	case VideoFieldHeight:
		return "height"
	case VideoFieldWidth:
		return "width"
	case VideoFieldTitle:
		return "title"
	case VideoFieldEmbedHTML:
		return "embed_html"
	case VideoFieldEmbedLink:
		return "embed_link"
	case VideoFieldLikeCount:
		return "like_count"
	case VideoFieldCommentCount:
		return "comment_count"
	case VideoFieldShareCount:
		return "share_count"
	case VideoFieldViewCount:
		return "view_count"
	default:
		return fmt.Sprintf("VideoField(%d)", int(f))
	}
}

// ParseVideoField maps a wire name to its VideoField
func ParseVideoField(s string) (VideoField, error) {
	switch s {
	case "id":
		return VideoFieldID, nil
	case "create_time":
		return VideoFieldCreateTime, nil
	case "cover_image_url":
		return VideoFieldCoverImageURL, nil
	case "share_url":
		return VideoFieldShareURL, nil
	case "video_description":
		return VideoFieldVideoDescription, nil
	case "duration":
		return VideoFieldDuration, nil
	case "height":
		return VideoFieldHeight, nil
	case "width":
		return VideoFieldWidth, nil
	case "title":
		return VideoFieldTitle, nil
	case "embed_html":
		return VideoFieldEmbedHTML, nil
	case "embed_link":
		return VideoFieldEmbedLink, nil
	case "like_count":
		return VideoFieldLikeCount, nil
	case "comment_count":
		return VideoFieldCommentCount, nil
	case "share_count":
		return VideoFieldShareCount, nil
	case "view_count":
		return VideoFieldViewCount, nil
	default:
		return 0, fmt.Errorf("video field %q: %w", s, ErrUnknownValue)
	}
}

// AllVideoFields returns every video field
func AllVideoFields() fields.Set[VideoField] {
	return fields.New(
		VideoFieldID,
		VideoFieldCreateTime,
		VideoFieldCoverImageURL,
		VideoFieldShareURL,
		VideoFieldVideoDescription,
		VideoFieldDuration,
		VideoFieldHeight,
		VideoFieldWidth,
		VideoFieldTitle,
		VideoFieldEmbedHTML,
		VideoFieldEmbedLink,
		VideoFieldLikeCount,
		VideoFieldCommentCount,
		VideoFieldShareCount,
		VideoFieldViewCount,
	)
}
