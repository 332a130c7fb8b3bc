package domain

import (
	"context"
	"time"
)

// Follow represents a self-referential many-to-many relationship between two
// users. Like a Like, the row's existence is the state, and the unique index
// covers exactly (follower_id, followed_id).
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"follower_id" gorm:"notNull;uniqueIndex:idx_follow_pair"`
	FollowedID int       `json:"followed_id" gorm:"notNull;uniqueIndex:idx_follow_pair"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowResult is the outcome of a follow toggle.
type FollowResult struct {
	Following bool `json:"following"`
	Count     int  `json:"count"`
}

// FollowService toggles follows, keeping users.follower_count consistent
// the same way LikeService keeps comments.like_count consistent.
type FollowService interface {
	Toggle(ctx context.Context, followerID, followedID int) (*FollowResult, error)
}
