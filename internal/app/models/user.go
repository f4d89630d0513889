package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email       string     `json:"email" db:"email" example:"user@school.edu"`               // User's email address
	Password    string     `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	FirstName   string     `json:"firstName" db:"first_name" example:"John"`                 // User's first name
	LastName    string     `json:"lastName" db:"last_name" example:"Doe"`                    // User's last name
	Role        RoleType   `json:"role" db:"role" example:"STUDENT"`                         // User's role (STUDENT, ADMIN or SUPERADMIN)
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`                   // Whether the user account is active
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`                 // Timestamp of the last login (nullable)
}

// IsStaff reports whether the user has staff capability.
func (u *User) IsStaff() bool {
	return u.Role.IsStaff()
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Profile defines the 1:1 profile record based on the 'profiles' table
type Profile struct {
	ID            int64  `json:"id" db:"id"`
	UserID        int64  `json:"userId" db:"user_id"`
	ContactNumber string `json:"contactNumber" db:"contact_number"`
	Program       string `json:"program" db:"program"`
	YearLevel     int    `json:"yearLevel" db:"year_level"` // Bounded 1-5
	Bio           string `json:"bio" db:"bio"`
	Address       string `json:"address" db:"address"`
	User          *User  `json:"user,omitempty"` // Relation, no db tag
}

// UserSettings defines the 1:1 settings record based on the 'user_settings' table
type UserSettings struct {
	ID                int64   `json:"id" db:"id"`
	UserID            int64   `json:"userId" db:"user_id"`
	DarkMode          bool    `json:"darkMode" db:"dark_mode"`
	ReceiveEmail      bool    `json:"receiveEmail" db:"receive_email"`
	ReceiveSMS        bool    `json:"receiveSms" db:"receive_sms"`
	ReceivePush       bool    `json:"receivePush" db:"receive_push"`
	ProfileVisible    bool    `json:"profileVisible" db:"profile_visible"`
	AllowDataSharing  bool    `json:"allowDataSharing" db:"allow_data_sharing"`
	NotificationEmail *string `json:"notificationEmail,omitempty" db:"notification_email"` // Overrides the account email for notifications (nullable)
}

// DefaultSettings returns the settings record created lazily on first access.
func DefaultSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:         userID,
		ReceiveEmail:   true,
		ReceivePush:    true,
		ProfileVisible: true,
	}
}

// NotificationAddress returns the address notification email should go to,
// preferring the settings override when present.
func (s *UserSettings) NotificationAddress(accountEmail string) string {
	if s != nil && s.NotificationEmail != nil && *s.NotificationEmail != "" {
		return *s.NotificationEmail
	}
	return accountEmail
}
