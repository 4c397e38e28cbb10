package model

// UserID identifies one account in the social graph.
type UserID string

// Profile carries the authoritative relationship counters returned by the
// remote profile service. Counts reflect server truth and may exceed the
// number of identifiers the service returns within a single page.
type Profile struct {
	UserID         UserID `json:"user_id"`
	FollowingCount int    `json:"following_count"`
	FollowerCount  int    `json:"follower_count"`
}

// GraphRecord is the durable mirror of the social graph cache, written as a
// single record after every mutation. Timestamp is epoch seconds; zero means
// the graph has never been synced and is treated as unconditionally stale.
type GraphRecord struct {
	Following      []UserID `json:"following"`
	Followers      []UserID `json:"followers"`
	Mutual         []UserID `json:"mutual"`
	FollowingCount int      `json:"following_count"`
	FollowersCount int      `json:"followers_count"`
	Timestamp      int64    `json:"timestamp"`
}
