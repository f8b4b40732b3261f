package domain

// NoticeKind classifies a non-blocking, user-facing notice.
type NoticeKind string

const (
	NoticeDuplicateStop     NoticeKind = "duplicate_stop"
	NoticeDateOutOfRange    NoticeKind = "date_out_of_range"
	NoticeIndexOutOfRange   NoticeKind = "index_out_of_range"
	NoticeUnknownFavorite   NoticeKind = "unknown_favorite"
	NoticeDuplicateFavorite NoticeKind = "duplicate_favorite"
)

// Notice reports a business-rule conflict that was resolved as a no-op.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}
