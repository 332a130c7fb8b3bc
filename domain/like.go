package domain

import (
	"context"
	"time"
)

// Like represents a many-to-many relationship between a User and a Comment.
// The existence of a row is the like state: a Like is created when a user
// likes a comment and hard-deleted when the same user toggles again. Rows
// are never updated in place. The composite unique index covers exactly
// (user_id, comment_id), so one user can hold at most one like per comment.
type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id" gorm:"notNull;uniqueIndex:idx_like_user_comment"`
	CommentID int       `json:"comment_id" gorm:"notNull;uniqueIndex:idx_like_user_comment"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResult is the outcome of a toggle, read from the just-committed
// transaction. Liked reports whether the call created the membership.
type LikeResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

// LikeService toggles likes. There is deliberately no Create/Delete pair:
// the toggle transaction is the only write path to like rows and to the
// denormalized comment counter.
type LikeService interface {
	Toggle(ctx context.Context, userID, commentID int) (*LikeResult, error)
}
