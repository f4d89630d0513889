package dto

import (
	"time"

	"github.com/eduassist/backend/internal/app/models"
)

// CreateFeedbackRequest represents a feedback submission.
// A comment is mandatory for the lowest rating.
type CreateFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=2000"`
}

// UpdateFeedbackRequest represents a feedback edit
type UpdateFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=2000"`
}

// FeedbackResponse represents a single feedback record
type FeedbackResponse struct {
	ID        int64         `json:"id"`
	Rating    int           `json:"rating"`
	Comment   string        `json:"comment"`
	User      *UserResponse `json:"user,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// FeedbackListResponse represents a paginated page of feedback
type FeedbackListResponse struct {
	Feedback   []FeedbackResponse `json:"feedback"`
	Pagination PaginationInfo     `json:"pagination"`
}

// FromFeedback converts a models.Feedback (with User relation) to a FeedbackResponse
func FromFeedback(fb *models.Feedback) FeedbackResponse {
	if fb == nil {
		return FeedbackResponse{}
	}
	resp := FeedbackResponse{
		ID:        fb.ID,
		Rating:    fb.Rating,
		Comment:   fb.Comment,
		CreatedAt: fb.CreatedAt,
	}
	if fb.User != nil {
		user := FromUser(fb.User)
		resp.User = &user
	}
	return resp
}
