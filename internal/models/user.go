package models

import "time"

// AdminID is the id of the sole administrator: the first user ever
// registered. Only this user may create, edit, or delete posts.
const AdminID uint = 1

// User represents a registered account. The password field only ever
// holds the bcrypt digest, never the plaintext.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the administrator id.
func (u *User) IsAdmin() bool {
	return u.ID == AdminID
}
