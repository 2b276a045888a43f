package models

import "time"

// Comment is a reader comment attached to a single post.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:text" validate:"required"`
	AuthorID  uint      `json:"author_id" gorm:"index"`
	PostID    uint      `json:"post_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}
