package models

import (
	"time"
)

// Feedback defines a user feedback record based on the 'feedback' table
type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"` // 1-5
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	User      *User     `json:"user,omitempty"` // Relation, no db tag
}
