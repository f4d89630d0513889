package models

import (
	"time"
)

// Status is a member of the configured request status enumeration.
// The concrete set (e.g. pending/approved/cancelled) is installed at
// bootstrap from configuration, not hard-coded here.
type Status string

// Category defines a taxonomy node based on the 'categories' table
type Category struct {
	ID          int64            `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"` // Unique
	Slug        string           `json:"slug" db:"slug"`
	Description string           `json:"description" db:"description"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
	Choices     []CategoryChoice `json:"choices,omitempty"` // Relation, no db tag
}

// CategoryChoice defines a sub-type value within a category
type CategoryChoice struct {
	ID         int64  `json:"id" db:"id"`
	CategoryID int64  `json:"categoryId" db:"category_id"`
	Value      string `json:"value" db:"value"` // Unique per category
}

// Tag defines a free-form label based on the 'tags' table.
// Names are lowercase-normalized and unique.
type Tag struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Request defines the central help-desk ticket based on the 'requests' table
type Request struct {
	ID               int64      `json:"id" db:"id"`
	UserID           int64      `json:"userId" db:"user_id"` // Owner, immutable after creation
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	Status           Status     `json:"status" db:"status"`
	Priority         Priority   `json:"priority" db:"priority"`
	CategoryID       *int64     `json:"categoryId,omitempty" db:"category_id"`              // Nullable, nullified when the category is deleted
	CategoryChoiceID *int64     `json:"categoryChoiceId,omitempty" db:"category_choice_id"` // Nullable
	AttachmentPath   *string    `json:"attachmentPath,omitempty" db:"attachment_path"`
	AdminMessage     *string    `json:"adminMessage,omitempty" db:"admin_message"` // Message attached by staff on the last status change
	ApprovedAt       *time.Time `json:"approvedAt,omitempty" db:"approved_at"`     // Set the first time the request enters the approved status
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`

	Owner    *User     `json:"owner,omitempty"`    // Relation, no db tag
	Category *Category `json:"category,omitempty"` // Relation, no db tag
	Tags     []Tag     `json:"tags,omitempty"`     // Relation, no db tag
}
