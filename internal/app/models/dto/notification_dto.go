package dto

import (
	"time"

	"github.com/eduassist/backend/internal/app/models"
)

// NotificationResponse represents a single in-app notification
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	RequestID *int64    `json:"requestId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationListResponse represents a paginated page of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
	Pagination    PaginationInfo         `json:"pagination"`
}

// FromNotification converts a models.Notification to a NotificationResponse
func FromNotification(n *models.Notification) NotificationResponse {
	if n == nil {
		return NotificationResponse{}
	}
	return NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		RequestID: n.RequestID,
		CreatedAt: n.CreatedAt,
	}
}
