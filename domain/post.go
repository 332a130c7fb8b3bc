package domain

import (
	"gorm.io/gorm"
	"time"
)

type Post struct {
	ID      int    `json:"id"`
	UserID  int    `json:"user_id" gorm:"notNull;index"`
	User    User   `json:"user"`
	Title   string `json:"title"`
	Content string `json:"content"`

	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at"`
}

// PostService is a set of methods to manipulate and work with the Post model.
type PostService interface {
	Create(post *Post) error
	ByID(id int) (*Post, error)
	Feed(offset int) ([]Post, error)
	Delete(post *Post) error
}
