package domain

import (
	"time"
)

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email" gorm:"uniqueIndex;notNull"`

	// Role decides which mutation classes the user may invoke. It is set
	// once at creation and never changes on an existing record; promoting
	// someone means creating a new account, not flipping this column.
	Role string `json:"role" gorm:"notNull;default:user"`

	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-"`

	// FollowerCount mirrors the number of follow rows pointing at this user.
	// Only FollowService.Toggle writes it.
	FollowerCount int `json:"follower_count"`

	Posts     []Post   `json:"posts,omitempty"`
	Followers []Follow `json:"-" gorm:"foreignKey:FollowedID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	Authenticate(email, password string) (*User, error)
	ByID(id int) (*User, error)
	ByEmail(email string) (*User, error)
	Create(user *User) error
}
