package responses

// UserInfoResponse is the body of GET /user/info/
type UserInfoResponse struct {
	Data  *UserInfoData `json:"data,omitempty"`
	Error *ErrorPayload `json:"error,omitempty"`
	Extra Extra         `json:"-"`
}

type plainUserInfoResponse UserInfoResponse

func (r *UserInfoResponse) UnmarshalJSON(data []byte) error {
	var p plainUserInfoResponse
	extra, err := UnmarshalWithExtra(data, &p, "data", "error")
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = UserInfoResponse(p)
	return nil
}

func (r UserInfoResponse) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainUserInfoResponse(r), r.Extra)
}

// IsEmptyExtra reports whether the response and every nested object decoded
// without unknown members
func (r UserInfoResponse) IsEmptyExtra() bool {
	return len(r.Extra) == 0 && emptyExtra(r.Data) && emptyExtra(r.Error)
}

// UserInfoData is the "data" object of UserInfoResponse
type UserInfoData struct {
	User  *User `json:"user,omitempty"`
	Extra Extra `json:"-"`
}

type plainUserInfoData UserInfoData

func (d *UserInfoData) UnmarshalJSON(data []byte) error {
	var p plainUserInfoData
	extra, err := UnmarshalWithExtra(data, &p, "user")
	if err != nil {
		return err
	}
	p.Extra = extra
	*d = UserInfoData(p)
	return nil
}

func (d UserInfoData) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainUserInfoData(d), d.Extra)
}

func (d UserInfoData) IsEmptyExtra() bool {
	return len(d.Extra) == 0 && emptyExtra(d.User)
}

// VideoListResponse is the body of POST /video/list/. Cursor and HasMore are
// surfaced verbatim from whichever level the endpoint reports them at.
type VideoListResponse struct {
	Data    *VideoListData `json:"data,omitempty"`
	Cursor  *int64         `json:"cursor,omitempty"`
	HasMore *bool          `json:"has_more,omitempty"`
	Error   *ErrorPayload  `json:"error,omitempty"`
	Extra   Extra          `json:"-"`
}

type plainVideoListResponse VideoListResponse

func (r *VideoListResponse) UnmarshalJSON(data []byte) error {
	var p plainVideoListResponse
	extra, err := UnmarshalWithExtra(data, &p, "data", "cursor", "has_more", "error")
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = VideoListResponse(p)
	return nil
}

func (r VideoListResponse) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainVideoListResponse(r), r.Extra)
}

// IsEmptyExtra reports whether the response and every nested object decoded
// without unknown members
func (r VideoListResponse) IsEmptyExtra() bool {
	return len(r.Extra) == 0 && emptyExtra(r.Data) && emptyExtra(r.Error)
}

// NextCursor returns the cursor for the next page and whether more pages
// exist. The "data" level takes precedence over the top level.
func (r VideoListResponse) NextCursor() (cursor int64, hasMore bool) {
	if r.Data != nil {
		if r.Data.Cursor != nil {
			cursor = *r.Data.Cursor
		}
		if r.Data.HasMore != nil {
			hasMore = *r.Data.HasMore
		}
	}
	if cursor == 0 && r.Cursor != nil {
		cursor = *r.Cursor
	}
	if !hasMore && r.HasMore != nil {
		hasMore = *r.HasMore
	}
	return cursor, hasMore
}

// VideoListData is the "data" object of VideoListResponse
type VideoListData struct {
	Videos  []Video `json:"videos,omitempty"`
	Cursor  *int64  `json:"cursor,omitempty"`
	HasMore *bool   `json:"has_more,omitempty"`
	Extra   Extra   `json:"-"`
}

type plainVideoListData VideoListData

func (d *VideoListData) UnmarshalJSON(data []byte) error {
	var p plainVideoListData
	extra, err := UnmarshalWithExtra(data, &p, "videos", "cursor", "has_more")
	if err != nil {
		return err
	}
	p.Extra = extra
	*d = VideoListData(p)
	return nil
}

func (d VideoListData) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainVideoListData(d), d.Extra)
}

func (d VideoListData) IsEmptyExtra() bool {
	return len(d.Extra) == 0 && allEmptyExtra(d.Videos)
}

// VideoQueryResponse is the body of POST /video/query/
type VideoQueryResponse struct {
	Data  *VideoQueryData `json:"data,omitempty"`
	Error *ErrorPayload   `json:"error,omitempty"`
	Extra Extra           `json:"-"`
}

type plainVideoQueryResponse VideoQueryResponse

func (r *VideoQueryResponse) UnmarshalJSON(data []byte) error {
	var p plainVideoQueryResponse
	extra, err := UnmarshalWithExtra(data, &p, "data", "error")
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = VideoQueryResponse(p)
	return nil
}

func (r VideoQueryResponse) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainVideoQueryResponse(r), r.Extra)
}

// IsEmptyExtra reports whether the response and every nested object decoded
// without unknown members
func (r VideoQueryResponse) IsEmptyExtra() bool {
	return len(r.Extra) == 0 && emptyExtra(r.Data) && emptyExtra(r.Error)
}

// VideoQueryData is the "data" object of VideoQueryResponse
type VideoQueryData struct {
	Videos []Video `json:"videos,omitempty"`
	Extra  Extra   `json:"-"`
}

type plainVideoQueryData VideoQueryData

func (d *VideoQueryData) UnmarshalJSON(data []byte) error {
	var p plainVideoQueryData
	extra, err := UnmarshalWithExtra(data, &p, "videos")
	if err != nil {
		return err
	}
	p.Extra = extra
	*d = VideoQueryData(p)
	return nil
}

func (d VideoQueryData) MarshalJSON() ([]byte, error) {
	return MarshalWithExtra(plainVideoQueryData(d), d.Extra)
}

func (d VideoQueryData) IsEmptyExtra() bool {
	return len(d.Extra) == 0 && allEmptyExtra(d.Videos)
}

func allEmptyExtra(videos []Video) bool {
	for _, v := range videos {
		if !v.IsEmptyExtra() {
			return false
		}
	}
	return true
}
