package model

// Post is one feed item. Only ID is required by the cache; items without an
// ID are skipped on save because they cannot be indexed or looked up again.
type Post struct {
	ID           string `json:"id"`
	AuthorID     UserID `json:"author_id"`
	Caption      string `json:"caption,omitempty"`
	MediaURL     string `json:"media_url,omitempty"`
	ActivityType string `json:"activity_type,omitempty"`
	DistanceM    int64  `json:"distance_m,omitempty"`
	DurationSec  int64  `json:"duration_sec,omitempty"`
	LikeCount    int    `json:"like_count"`
	CommentCount int    `json:"comment_count"`
	CreatedAt    int64  `json:"created_at"`
}

// Interaction is lightweight per-post viewer state kept alongside the feed
// snapshot. It has no expiration and no size cap.
type Interaction struct {
	Liked        bool  `json:"liked"`
	Bookmarked   bool  `json:"bookmarked"`
	LastViewedAt int64 `json:"last_viewed_at,omitempty"`
}
