package domain

import (
	"time"
)

type Comment struct {
	ID      int    `json:"id"`
	PostID  int    `json:"post_id" gorm:"notNull;index"`
	UserID  int    `json:"user_id" gorm:"notNull;index"`
	User    User   `json:"user"`
	Content string `json:"content"`

	// LikeCount mirrors the number of like rows pointing at this comment.
	// It is a cache of a derivable value, recomputed and written back only
	// inside LikeService.Toggle's transaction. No other code writes it.
	LikeCount int `json:"like_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	Create(comment *Comment) error
	ByID(id int) (*Comment, error)
	Delete(comment *Comment) error
}
