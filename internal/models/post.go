package models

import "time"

// DateLayout is the human-readable publication date format stored on
// each post, e.g. "August 28, 2026".
const DateLayout = "January 2, 2006"

// Post represents a blog post. Each post is owned by exactly one
// author; titles are unique across all posts.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"uniqueIndex;type:varchar(250)" validate:"required,max=250"`
	Subtitle  string    `json:"subtitle" gorm:"type:varchar(250)" validate:"required,max=250"`
	Date      string    `json:"date" gorm:"type:varchar(100)"`
	Body      string    `json:"body" gorm:"type:text" validate:"required"`
	ImgURL    string    `json:"img_url" gorm:"type:varchar(250)" validate:"required,url"`
	AuthorID  uint      `json:"author_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
