package follows

import "time"

// Follow is a join row unique per (follower, followee).
type Follow struct {
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}
