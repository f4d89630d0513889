package models

import (
	"time"
)

// Notification defines an in-app message based on the 'notifications' table
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	RequestID *int64    `json:"requestId,omitempty" db:"request_id"` // Originating request, nullable
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// EmailLog records every notification email attempt based on the 'email_logs' table
type EmailLog struct {
	ID          int64     `json:"id" db:"id"`
	Recipient   string    `json:"recipient" db:"recipient"`
	TemplateKey string    `json:"templateKey" db:"template_key"` // e.g. request_approved
	Status      string    `json:"status" db:"status"`            // Sent or a failure reason
	Message     string    `json:"message" db:"message"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Email log statuses
const (
	EmailStatusSent           = "Sent"
	EmailStatusInvalidAddress = "Failed - Invalid Email"
	EmailStatusServiceError   = "Failed - Service Error"
	EmailStatusTimeout        = "Failed - Timeout"
)
